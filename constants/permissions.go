package constants

// Organization permissions
const (
	// Admin permissions
	PermSuperAdminFull = "tms.super-admin.full-permit"
	PermDispatcherFull = "tms.dispatcher.full-permit"
	PermAccountantFull = "tms.accountant.full-permit"
	PermDriverFull     = "tms.driver.full-permit"
	PermCustomerFull   = "tms.customer.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	WorkflowWriterPermissions = []string{
		PermSuperAdminFull,
		PermDispatcherFull,
		PermDriverFull,
	}
)
