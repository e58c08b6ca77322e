package address

var (
	administrativeAreaLabels = map[string]string{
		"area":       "Area",
		"county":     "County",
		"department": "Department",
		"district":   "District",
		"do_si":      "Do si",
		"emirate":    "Emirate",
		"island":     "Island",
		"oblast":     "Oblast",
		"parish":     "Parish",
		"prefecture": "Prefecture",
		"province":   "Province",
		"state":      "State",
	}
	localityLabels = map[string]string{
		"city":      "City",
		"district":  "District",
		"post_town": "Post town",
		"suburb":    "Suburb",
	}
	dependentLocalityLabels = map[string]string{
		"district":         "District",
		"neighborhood":     "Neighborhood",
		"village_township": "Village township",
		"suburb":           "Suburb",
		"townland":         "Townland",
	}
)

// FieldLabels returns the display label for each subdivision field, picked
// from the format's subdivision types. Unknown or empty types fall back to
// Province, City and Suburb.
func FieldLabels(format Format) map[Field]string {
	return map[Field]string{
		FieldAdministrativeArea: labelFor(administrativeAreaLabels, format.AdministrativeAreaType, "Province"),
		FieldLocality:           labelFor(localityLabels, format.LocalityType, "City"),
		FieldDependentLocality:  labelFor(dependentLocalityLabels, format.DependentLocalityType, "Suburb"),
	}
}

func labelFor(labels map[string]string, kind, fallback string) string {
	if label, ok := labels[kind]; ok {
		return label
	}
	return fallback
}
