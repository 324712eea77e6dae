package firebird

// Features are the capability flags a generic SQL layer dispatches on.
// They describe Firebird 3 and later.
type Features struct {
	SupportsTransactions    bool
	CanRollbackDDL          bool
	SupportsTimezones       bool
	SupportsIdentityColumns bool
	SupportsBooleanType     bool
	SupportsTableRename     bool
	SupportsReturning       bool
	UppercasesIdentifiers   bool // unquoted names fold to upper case
	MaxNameLength           int
}

// DefaultFeatures returns the flag set for this backend.
func DefaultFeatures() Features {
	return Features{
		SupportsTransactions:    true,
		CanRollbackDDL:          true,
		SupportsTimezones:       false,
		SupportsIdentityColumns: true,
		SupportsBooleanType:     true,
		SupportsTableRename:     false,
		SupportsReturning:       true,
		UppercasesIdentifiers:   true,
		MaxNameLength:           31,
	}
}
