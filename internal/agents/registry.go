package agents

import (
	"errors"
	"fmt"

	"github.com/owasp-zof/tabletop-portal/internal/types"
)

// ErrUnregisteredDocumentType reports a document type tag with no agent.
var ErrUnregisteredDocumentType = errors.New("unregistered document type")

// registry maps every document type to its agent. Built once at package init
// and never mutated afterwards; lookups are pure reads.
var registry = map[types.DocumentType]*Agent{
	types.DocScenarioBrief:       scenarioBrief,
	types.DocFacilitatorGuide:    facilitatorGuide,
	types.DocParticipantHandbook: participantHandbook,
	types.DocInjectCards:         injectCards,
	types.DocAssessmentRubric:    assessmentRubric,
	types.DocAfterActionTemplate: afterActionTemplate,
}

// Resolve returns the agent responsible for a document type. Unknown tags are
// a configuration error and fail the whole operation.
func Resolve(dt types.DocumentType) (*Agent, error) {
	agent, ok := registry[dt]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregisteredDocumentType, dt)
	}
	return agent, nil
}

// All returns the registered agents keyed by document type, in the declared
// generation order.
func All() []*Agent {
	out := make([]*Agent, 0, len(types.DocumentTypeOrder))
	for _, dt := range types.DocumentTypeOrder {
		if agent, ok := registry[dt]; ok {
			out = append(out, agent)
		}
	}
	return out
}
