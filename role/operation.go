package role

import "strings"

// Operation is one of the concrete access operations understood by
// resource-access checks. Free-form operation strings are accepted in grants;
// the enum exists so access checks can reject unknown operation names and so
// ALL can be expanded over the concrete set.
type Operation uint8

const (
	// OpRead is the read operation.
	OpRead Operation = iota
	// OpWrite is the write operation.
	OpWrite
	// OpCreate is the create operation.
	OpCreate
	// OpDelete is the delete operation.
	OpDelete
	// OpList is the list operation.
	OpList
	// OpExecute is the execute operation.
	OpExecute
	// OpAdmin is the administrative operation.
	OpAdmin
	// OpAll is satisfied only when every concrete operation individually
	// resolves true. It is never stored as a grant.
	OpAll
)

var opNames = [...]string{
	OpRead:    "read",
	OpWrite:   "write",
	OpCreate:  "create",
	OpDelete:  "delete",
	OpList:    "list",
	OpExecute: "execute",
	OpAdmin:   "admin",
	OpAll:     "all",
}

// Concrete lists every operation except [OpAll], in declaration order.
var Concrete = [...]Operation{OpRead, OpWrite, OpCreate, OpDelete, OpList, OpExecute, OpAdmin}

func (o Operation) String() string {
	if int(o) >= len(opNames) {
		return "UNKNOWN"
	}
	return opNames[o]
}

// ParseOperation resolves an operation name case-insensitively.
// The second return is false for names outside the known set.
func ParseOperation(name string) (Operation, bool) {
	lower := strings.ToLower(name)
	for op, s := range opNames {
		if s == lower {
			return Operation(op), true
		}
	}
	return 0, false
}

// Permission builds the stored grant string for a resource and operation.
// The operation half is lowercased so grants and lookups agree on case.
func Permission(resource, operation string) string {
	return resource + ":" + strings.ToLower(operation)
}
