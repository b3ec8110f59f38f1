package workflow

import (
	"github.com/mrz1836/taskflow/internal/constants"
	"github.com/mrz1836/taskflow/internal/domain"
)

func step(name string, status constants.BoardStatus) domain.StepDefinition {
	return domain.StepDefinition{Name: name, Status: status}
}

// NewProgrammingTemplate returns the software development board.
func NewProgrammingTemplate() Template {
	return Template{
		Industry: constants.IndustryProgramming,
		Steps: []domain.StepDefinition{
			step("Backlog", constants.BoardStatusBacklog),
			step("Sprint Planned", constants.BoardStatusPlanned),
			step("In Development", constants.BoardStatusInProgress),
			step("Blocked", constants.BoardStatusOnHold),
			step("Done", constants.BoardStatusCompleted),
			step("Won't Do", constants.BoardStatusCancelled),
		},
	}
}

// NewMarketingTemplate returns the campaign board.
func NewMarketingTemplate() Template {
	return Template{
		Industry: constants.IndustryMarketing,
		Steps: []domain.StepDefinition{
			step("Ideas", constants.BoardStatusBacklog),
			step("Planned", constants.BoardStatusPlanned),
			step("In Production", constants.BoardStatusInProgress),
			step("On Hold", constants.BoardStatusOnHold),
			step("Published", constants.BoardStatusCompleted),
			step("Cancelled", constants.BoardStatusCancelled),
		},
	}
}

// NewLegalTemplate returns the matter board.
func NewLegalTemplate() Template {
	return Template{
		Industry: constants.IndustryLegal,
		Steps: []domain.StepDefinition{
			step("Intake", constants.BoardStatusBacklog),
			step("Scheduled", constants.BoardStatusPlanned),
			step("In Review", constants.BoardStatusInProgress),
			step("Awaiting Client", constants.BoardStatusOnHold),
			step("Closed", constants.BoardStatusCompleted),
			step("Withdrawn", constants.BoardStatusCancelled),
		},
	}
}

// NewProductTemplate returns the product roadmap board.
func NewProductTemplate() Template {
	return Template{
		Industry: constants.IndustryProduct,
		Steps: []domain.StepDefinition{
			step("Discovery", constants.BoardStatusBacklog),
			step("Roadmap", constants.BoardStatusPlanned),
			step("Building", constants.BoardStatusInProgress),
			step("Paused", constants.BoardStatusOnHold),
			step("Shipped", constants.BoardStatusCompleted),
			step("Dropped", constants.BoardStatusCancelled),
		},
	}
}

// NewLogisticsTemplate returns the shipment board.
func NewLogisticsTemplate() Template {
	return Template{
		Industry: constants.IndustryLogistics,
		Steps: []domain.StepDefinition{
			step("Orders", constants.BoardStatusBacklog),
			step("Scheduled", constants.BoardStatusPlanned),
			step("In Transit", constants.BoardStatusInProgress),
			step("Delayed", constants.BoardStatusOnHold),
			step("Delivered", constants.BoardStatusCompleted),
			step("Cancelled", constants.BoardStatusCancelled),
		},
	}
}

// NewOtherTemplate returns the generic board. It is the fallback for any
// industry without a template of its own.
func NewOtherTemplate() Template {
	return Template{
		Industry: constants.IndustryOther,
		Steps: []domain.StepDefinition{
			step("Backlog", constants.BoardStatusBacklog),
			step("Planned", constants.BoardStatusPlanned),
			step("In Progress", constants.BoardStatusInProgress),
			step("On Hold", constants.BoardStatusOnHold),
			step("Completed", constants.BoardStatusCompleted),
			step("Cancelled", constants.BoardStatusCancelled),
		},
	}
}

// NewDefaultRegistry creates a registry with all built-in templates.
// Templates are compiled into the binary (not external files).
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(
		NewProgrammingTemplate(),
		NewMarketingTemplate(),
		NewLegalTemplate(),
		NewProductTemplate(),
		NewLogisticsTemplate(),
		NewOtherTemplate(),
	)
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}
	return r
}
