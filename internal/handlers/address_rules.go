package handlers

import (
	"fmt"
	"regexp"
	"strings"

	"bookstore/internal/models"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

var validStates = map[string]bool{
	"Andhra Pradesh": true, "Arunachal Pradesh": true, "Assam": true,
	"Bihar": true, "Chhattisgarh": true, "Goa": true, "Gujarat": true,
	"Haryana": true, "Himachal Pradesh": true, "Jharkhand": true,
	"Karnataka": true, "Kerala": true, "Madhya Pradesh": true,
	"Maharashtra": true, "Manipur": true, "Meghalaya": true, "Mizoram": true,
	"Nagaland": true, "Odisha": true, "Punjab": true, "Rajasthan": true,
	"Sikkim": true, "Tamil Nadu": true, "Telangana": true, "Tripura": true,
	"Uttar Pradesh": true, "Uttarakhand": true, "West Bengal": true,
	"Andaman and Nicobar Islands": true, "Chandigarh": true,
	"Dadra and Nagar Haveli and Daman and Diu": true, "Delhi": true,
	"Jammu and Kashmir": true, "Ladakh": true, "Lakshadweep": true,
	"Puducherry": true,
}

func validateAddressFields(fullName, phone, line1, city, state, pincode string) error {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(phone) == "" ||
		strings.TrimSpace(line1) == "" || strings.TrimSpace(city) == "" {
		return fmt.Errorf("fullName, phone, line1 and city are required")
	}
	if !validStates[strings.TrimSpace(state)] {
		return fmt.Errorf("invalid state")
	}
	if !pincodePattern.MatchString(strings.TrimSpace(pincode)) {
		return fmt.Errorf("pincode must be a valid 6-digit code")
	}
	return nil
}

// applyAddressAdd appends addr while keeping at most one default. A user's
// first address becomes default regardless of the flag on the request.
func applyAddressAdd(existing []models.Address, addr models.Address) []models.Address {
	if addr.IsDefault || len(existing) == 0 {
		addr.IsDefault = true
		for i := range existing {
			existing[i].IsDefault = false
		}
	}
	return append(existing, addr)
}

// applyAddressUpdate replaces the fields of the address with the given id.
// Returns false when no address matches.
func applyAddressUpdate(addresses []models.Address, id string, updated models.Address) ([]models.Address, bool) {
	index := -1
	for i, addr := range addresses {
		if addr.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return addresses, false
	}

	if updated.IsDefault {
		for i := range addresses {
			addresses[i].IsDefault = false
		}
	}

	updated.ID = id
	addresses[index] = updated
	return addresses, true
}

// applyAddressDelete removes the address with the given id. When the deleted
// address was the default and others remain, the first remaining address (by
// insertion order) is promoted.
func applyAddressDelete(addresses []models.Address, id string) ([]models.Address, bool) {
	updated := make([]models.Address, 0, len(addresses))
	found := false
	wasDefault := false
	for _, addr := range addresses {
		if addr.ID == id {
			found = true
			wasDefault = addr.IsDefault
			continue
		}
		updated = append(updated, addr)
	}
	if !found {
		return addresses, false
	}

	if wasDefault && len(updated) > 0 {
		updated[0].IsDefault = true
	}
	return updated, true
}
