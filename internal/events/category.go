package events

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Category string

const (
	CategoryStageShow Category = "STAGE_SHOW"
	CategoryConcert   Category = "CONCERT"
	CategoryTalk      Category = "TALK"
)

type TicketType string

const (
	TicketTypeGeneral          TicketType = "GENERAL"
	TicketTypeVIP              TicketType = "VIP"
	TicketTypeField            TicketType = "FIELD"
	TicketTypeOrchestra        TicketType = "ORCHESTRA"
	TicketTypeBox              TicketType = "BOX"
	TicketTypeWithMeetGreet    TicketType = "WITH_MEET_GREET"
	TicketTypeWithoutMeetGreet TicketType = "WITHOUT_MEET_GREET"
)

// allowedTicketTypes maps each event category to the ticket types it admits.
var allowedTicketTypes = map[Category][]TicketType{
	CategoryStageShow: {TicketTypeGeneral, TicketTypeVIP},
	CategoryConcert:   {TicketTypeField, TicketTypeOrchestra, TicketTypeBox},
	CategoryTalk:      {TicketTypeWithMeetGreet, TicketTypeWithoutMeetGreet},
}

func (c Category) IsValid() bool {
	_, ok := allowedTicketTypes[c]
	return ok
}

func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeGeneral, TicketTypeVIP, TicketTypeField, TicketTypeOrchestra,
		TicketTypeBox, TicketTypeWithMeetGreet, TicketTypeWithoutMeetGreet:
		return true
	}
	return false
}

// AllowedTicketTypes returns the ticket types admitted by a category.
func AllowedTicketTypes(category Category) []TicketType {
	return allowedTicketTypes[category]
}

// IsCompatible reports whether a ticket type is admitted by a category.
func IsCompatible(category Category, ticketType TicketType) bool {
	for _, allowed := range allowedTicketTypes[category] {
		if allowed == ticketType {
			return true
		}
	}
	return false
}

// ValidateCompatible fails when any requested ticket type falls outside the
// category's allowed set. Applied at event creation and update only.
func ValidateCompatible(category Category, ticketTypes []TicketType) error {
	if !category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrIncompatibleTicketType, category)
	}
	for _, t := range ticketTypes {
		if !IsCompatible(category, t) {
			return fmt.Errorf("%w: %s does not admit %s", ErrIncompatibleTicketType, category, t)
		}
	}
	return nil
}

// Custom binding validators, registered at startup from main.

func ValidateEventCategory(fl validator.FieldLevel) bool {
	return Category(fl.Field().String()).IsValid()
}

func ValidateTicketType(fl validator.FieldLevel) bool {
	return TicketType(fl.Field().String()).IsValid()
}
