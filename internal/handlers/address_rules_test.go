package handlers

import (
	"testing"

	"bookstore/internal/models"
)

func countDefaults(addresses []models.Address) int {
	n := 0
	for _, addr := range addresses {
		if addr.IsDefault {
			n++
		}
	}
	return n
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	result := applyAddressAdd(nil, models.Address{ID: "a", IsDefault: false})
	if len(result) != 1 || !result[0].IsDefault {
		t.Fatalf("expected first address to become default, got %+v", result)
	}
}

func TestAddDefaultUndefaultsSiblings(t *testing.T) {
	existing := []models.Address{{ID: "a", IsDefault: true}}
	result := applyAddressAdd(existing, models.Address{ID: "b", IsDefault: true})

	if countDefaults(result) != 1 {
		t.Fatalf("expected exactly one default, got %d", countDefaults(result))
	}
	if result[0].IsDefault || !result[1].IsDefault {
		t.Fatalf("expected b to be default, got %+v", result)
	}
}

func TestAddNonDefaultKeepsExistingDefault(t *testing.T) {
	existing := []models.Address{{ID: "a", IsDefault: true}}
	result := applyAddressAdd(existing, models.Address{ID: "b"})

	if !result[0].IsDefault || result[1].IsDefault {
		t.Fatalf("expected a to stay default, got %+v", result)
	}
}

func TestUpdateDefaultUndefaultsSiblings(t *testing.T) {
	addresses := []models.Address{
		{ID: "a", IsDefault: true},
		{ID: "b"},
	}
	result, ok := applyAddressUpdate(addresses, "b", models.Address{IsDefault: true})
	if !ok {
		t.Fatal("expected update to find address b")
	}
	if countDefaults(result) != 1 || !result[1].IsDefault {
		t.Fatalf("expected b to be the only default, got %+v", result)
	}
}

func TestUpdateMissingAddress(t *testing.T) {
	_, ok := applyAddressUpdate([]models.Address{{ID: "a"}}, "missing", models.Address{})
	if ok {
		t.Fatal("expected update of missing address to fail")
	}
}

func TestDeleteDefaultPromotesFirstRemaining(t *testing.T) {
	addresses := []models.Address{
		{ID: "a"},
		{ID: "b", IsDefault: true},
		{ID: "c"},
	}
	result, ok := applyAddressDelete(addresses, "b")
	if !ok {
		t.Fatal("expected delete to find address b")
	}
	if len(result) != 2 || !result[0].IsDefault || result[0].ID != "a" {
		t.Fatalf("expected a (first remaining) to become default, got %+v", result)
	}
}

func TestDeleteNonDefaultLeavesDefaultAlone(t *testing.T) {
	addresses := []models.Address{
		{ID: "a", IsDefault: true},
		{ID: "b"},
	}
	result, ok := applyAddressDelete(addresses, "b")
	if !ok {
		t.Fatal("expected delete to find address b")
	}
	if len(result) != 1 || !result[0].IsDefault {
		t.Fatalf("expected a to stay default, got %+v", result)
	}
}

func TestAddUpdateDeleteScenario(t *testing.T) {
	// zero addresses -> add A (flag unset) -> A default
	addresses := applyAddressAdd(nil, models.Address{ID: "A"})
	if !addresses[0].IsDefault {
		t.Fatal("expected A to be default after first add")
	}

	// add B with isDefault=true -> B default, A not
	addresses = applyAddressAdd(addresses, models.Address{ID: "B", IsDefault: true})
	if addresses[0].IsDefault || !addresses[1].IsDefault {
		t.Fatalf("expected B default after add, got %+v", addresses)
	}

	// delete B -> A default again
	addresses, ok := applyAddressDelete(addresses, "B")
	if !ok || len(addresses) != 1 || !addresses[0].IsDefault {
		t.Fatalf("expected A promoted after deleting B, got %+v", addresses)
	}
}

func TestValidateAddressFields(t *testing.T) {
	if err := validateAddressFields("Name", "9876543210", "Street 1", "Lucknow", "Uttar Pradesh", "226001"); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}
	if err := validateAddressFields("Name", "9876543210", "Street 1", "Lucknow", "Nowhere", "226001"); err == nil {
		t.Fatal("expected invalid state to be rejected")
	}
	if err := validateAddressFields("Name", "9876543210", "Street 1", "Lucknow", "Uttar Pradesh", "0226001"); err == nil {
		t.Fatal("expected invalid pincode to be rejected")
	}
	if err := validateAddressFields("Name", "9876543210", "Street 1", "Lucknow", "Uttar Pradesh", "22600"); err == nil {
		t.Fatal("expected short pincode to be rejected")
	}
}

func TestPartialUpdateRetainsOmittedFields(t *testing.T) {
	stored := models.Address{
		ID:        "A",
		FullName:  "Fatima Begum",
		Phone:     "9123456780",
		Line1:     "4 Park Street",
		Line2:     "Near Masjid",
		City:      "Kolkata",
		State:     "West Bengal",
		Pincode:   "700016",
		IsDefault: true,
	}

	city := "Howrah"
	merged := updateAddressRequest{City: &city}.applyTo(stored)

	if merged.City != "Howrah" {
		t.Errorf("City = %q, want Howrah", merged.City)
	}
	if merged.Line2 != "Near Masjid" {
		t.Errorf("omitted Line2 cleared: %q", merged.Line2)
	}
	if !merged.IsDefault {
		t.Error("omitted isDefault cleared the default flag")
	}
	if merged.ID != "A" || merged.FullName != "Fatima Begum" {
		t.Errorf("unrelated fields changed: %+v", merged)
	}
}

func TestPartialUpdateClearsLine2Explicitly(t *testing.T) {
	stored := models.Address{ID: "A", Line2: "Near Masjid"}

	empty := ""
	merged := updateAddressRequest{Line2: &empty}.applyTo(stored)
	if merged.Line2 != "" {
		t.Errorf("explicit empty Line2 not applied: %q", merged.Line2)
	}
}
