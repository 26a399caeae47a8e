package model

import (
	"encoding/json"
	"fmt"
)

// Trip detail keys as they appear in model output and prompts.
const (
	KeyDepartureCity         = "departure_city"
	KeyDestinationCity       = "destination_city"
	KeyDepartureDate         = "departure_date"
	KeyReturnDate            = "return_date"
	KeyDesiredSurfConditions = "desired_surf_conditions"
)

// MandatoryTripKeys must all be present before the forecast check runs.
var MandatoryTripKeys = []string{KeyDepartureCity, KeyDestinationCity, KeyDepartureDate}

// TripDetails is the partial trip record. Empty strings and nil dates mean
// the field is unknown.
type TripDetails struct {
	DepartureCity         string `json:"departure_city,omitempty"`
	DestinationCity       string `json:"destination_city,omitempty"`
	DepartureDate         *Date  `json:"departure_date,omitempty"`
	ReturnDate            *Date  `json:"return_date,omitempty"`
	DesiredSurfConditions string `json:"desired_surf_conditions,omitempty"`
}

// Merge returns a copy of t with every recognised key of fields written over
// it. Keys absent from fields are left untouched; a JSON null clears the
// field. Unknown keys are ignored. Date values must be ISO strings.
func (t TripDetails) Merge(fields map[string]any) (TripDetails, error) {
	out := t.Clone()
	for key, raw := range fields {
		switch key {
		case KeyDepartureCity:
			s, err := textField(key, raw)
			if err != nil {
				return t, err
			}
			out.DepartureCity = s
		case KeyDestinationCity:
			s, err := textField(key, raw)
			if err != nil {
				return t, err
			}
			out.DestinationCity = s
		case KeyDesiredSurfConditions:
			s, err := textField(key, raw)
			if err != nil {
				return t, err
			}
			out.DesiredSurfConditions = s
		case KeyDepartureDate:
			d, err := dateField(key, raw)
			if err != nil {
				return t, err
			}
			out.DepartureDate = d
		case KeyReturnDate:
			d, err := dateField(key, raw)
			if err != nil {
				return t, err
			}
			out.ReturnDate = d
		}
	}
	return out, nil
}

// Clone copies the record including its date pointers.
func (t TripDetails) Clone() TripDetails {
	out := t
	if t.DepartureDate != nil {
		d := *t.DepartureDate
		out.DepartureDate = &d
	}
	if t.ReturnDate != nil {
		d := *t.ReturnDate
		out.ReturnDate = &d
	}
	return out
}

// Missing lists the mandatory keys that are still unknown, in canonical order.
func (t TripDetails) Missing() []string {
	var missing []string
	if t.DepartureCity == "" {
		missing = append(missing, KeyDepartureCity)
	}
	if t.DestinationCity == "" {
		missing = append(missing, KeyDestinationCity)
	}
	if t.DepartureDate == nil || t.DepartureDate.IsZero() {
		missing = append(missing, KeyDepartureDate)
	}
	return missing
}

// Complete reports whether all mandatory keys are known.
func (t TripDetails) Complete() bool {
	return len(t.Missing()) == 0
}

// JSON renders the record for prompts; it never fails on this type.
func (t TripDetails) JSON() string {
	b, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func textField(key string, raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprint(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%s: %w", key, err)
		}
		return string(b), nil
	}
}

func dateField(key string, raw any) (*Date, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		d, err := ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &d, nil
	default:
		return nil, fmt.Errorf("%s: expected ISO date string, got %T", key, raw)
	}
}
