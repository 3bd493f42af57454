package models

// EntryType selects which questionnaire flow a submission came from.
type EntryType string

const (
	// EntryTypeKnowing is the flow for users already familiar with Christianity.
	EntryTypeKnowing EntryType = "yes_i_know"
	// EntryTypeNew is the flow for users new to the faith.
	EntryTypeNew EntryType = "no_im_new"
)

// ValidEntryTypes contains all valid entry type values.
var ValidEntryTypes = []EntryType{EntryTypeKnowing, EntryTypeNew}

// IsValidEntryType checks if the given entry type is valid.
func IsValidEntryType(entryType string) bool {
	for _, t := range ValidEntryTypes {
		if string(t) == entryType {
			return true
		}
	}
	return false
}
