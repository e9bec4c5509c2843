package enum

// CashierRole is the role of a POS employee on the terminal.
// Any authenticated cashier may operate an open session; the role only
// gates supervisor-level screens on the front end.
type CashierRole string

const (
	CashierRoleCashier    CashierRole = "cashier"
	CashierRoleSupervisor CashierRole = "supervisor"
)

// Valid reports whether the role is known.
func (r CashierRole) Valid() bool {
	return r == CashierRoleCashier || r == CashierRoleSupervisor
}
