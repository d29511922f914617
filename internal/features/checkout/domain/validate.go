package domain

import (
	"regexp"
	"strings"
)

var (
	phonePattern    = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// FormErrors is the structured validation result, keyed by form section and
// field. An empty value means the form is valid.
type FormErrors struct {
	// General is a form-wide error not tied to a single field.
	General string `json:"general,omitempty"`
	// Customer holds per-field errors of the customer section.
	Customer map[string]string `json:"customer,omitempty"`
	// Delivery holds per-field errors of the delivery section.
	Delivery map[string]string `json:"delivery,omitempty"`
	// Agreements holds per-field errors of the agreements section.
	Agreements map[string]string `json:"agreements,omitempty"`
}

// Empty reports whether no violations were found.
func (e FormErrors) Empty() bool {
	return e.General == "" &&
		len(e.Customer) == 0 &&
		len(e.Delivery) == 0 &&
		len(e.Agreements) == 0
}

func setError(section *map[string]string, field, message string) {
	if *section == nil {
		*section = make(map[string]string)
	}
	(*section)[field] = message
}

// Validate runs the field-level checkout checks and returns every violation.
// Phone numbers are validated after stripping non-digits, so formatted input
// like "+7 (999) 123-45-67" passes.
func (f Form) Validate() FormErrors {
	var errs FormErrors

	if strings.TrimSpace(f.Customer.Name) == "" {
		setError(&errs.Customer, "name", "Укажите имя")
	}

	if strings.TrimSpace(f.Customer.Phone) == "" {
		setError(&errs.Customer, "phone", "Укажите телефон")
	} else {
		digits := nonDigitPattern.ReplaceAllString(f.Customer.Phone, "")
		if len(digits) < 10 || !phonePattern.MatchString("+"+digits) {
			setError(&errs.Customer, "phone", "Неверный формат телефона")
		}
	}

	if strings.TrimSpace(f.Customer.Email) == "" {
		setError(&errs.Customer, "email", "Укажите email")
	} else if !emailPattern.MatchString(f.Customer.Email) {
		setError(&errs.Customer, "email", "Неверный формат email")
	}

	if f.Delivery.Type == DeliveryTypeDelivery {
		address := f.Delivery.Address.DeliveryAddress
		if strings.TrimSpace(address.City) == "" {
			setError(&errs.Delivery, "city", "Укажите город")
		}
		if strings.TrimSpace(address.Street) == "" {
			setError(&errs.Delivery, "street", "Укажите улицу")
		}
		if strings.TrimSpace(address.House) == "" {
			setError(&errs.Delivery, "house", "Укажите дом")
		}
	}

	if !f.Agreements.PublicOffer {
		setError(&errs.Agreements, "publicOffer", "Необходимо согласие с условиями оферты")
	}
	if !f.Agreements.PersonalData {
		setError(&errs.Agreements, "personalData", "Необходимо согласие на обработку персональных данных")
	}

	return errs
}
