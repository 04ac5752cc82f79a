package alert

// MissingData replaces any field that could not be extracted from a payload.
const MissingData = "Missing data!"

// Details holds the fields extracted from a vendor alert payload.
type Details struct {
	// Name is the alert rule name.
	Name string
	// Site is the site label embedded in the alert value string.
	Site string
	// Ticket is the ticket number reported by the alert query.
	Ticket string
}

// MissingDetails returns Details with every field set to MissingData.
func MissingDetails() Details {
	return Details{
		Name:   MissingData,
		Site:   MissingData,
		Ticket: MissingData,
	}
}

// Complete reports whether every field was extracted.
func (d Details) Complete() bool {
	return d.Name != MissingData && d.Site != MissingData && d.Ticket != MissingData
}
