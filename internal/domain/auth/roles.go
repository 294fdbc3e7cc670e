package auth

// Permission codes checked by the HTTP layer. Kept flat: "resource:action".
const (
	PermissionAll = "*"

	PermBuildingsRead  = "buildings:read"
	PermBuildingsWrite = "buildings:write"

	PermApartmentsRead  = "apartments:read"
	PermApartmentsWrite = "apartments:write"

	PermResidentsRead  = "residents:read"
	PermResidentsWrite = "residents:write"

	PermInventoriesRead  = "inventories:read"
	PermInventoriesWrite = "inventories:write"

	PermTransactionsRead  = "transactions:read"
	PermTransactionsWrite = "transactions:write"

	PermFeesRead  = "fees:read"
	PermFeesWrite = "fees:write"

	PermPaymentsRead  = "payments:read"
	PermPaymentsWrite = "payments:write"

	PermExpensesRead  = "expenses:read"
	PermExpensesWrite = "expenses:write"

	PermUsersRead  = "users:read"
	PermUsersWrite = "users:write"

	PermReportsRead = "reports:read"
)

// SystemRole describes a seeded role.
type SystemRole struct {
	Code        string
	Name        string
	Description string
	Permissions []string
}

// SystemRoles are created by the seed command and protected from deletion.
func SystemRoles() []SystemRole {
	return []SystemRole{
		{
			Code:        "admin",
			Name:        "Administrator",
			Description: "Full access to everything",
			Permissions: []string{PermissionAll},
		},
		{
			Code:        "manager",
			Name:        "Building Manager",
			Description: "Manages buildings, apartments, residents and fees",
			Permissions: []string{
				PermBuildingsRead, PermBuildingsWrite,
				PermApartmentsRead, PermApartmentsWrite,
				PermResidentsRead, PermResidentsWrite,
				PermInventoriesRead,
				PermTransactionsRead,
				PermFeesRead, PermFeesWrite,
				PermPaymentsRead,
				PermExpensesRead, PermExpensesWrite,
				PermReportsRead,
			},
		},
		{
			Code:        "accountant",
			Name:        "Accountant",
			Description: "Full visibility of money movement, manages fees and expenses",
			Permissions: []string{
				PermBuildingsRead,
				PermApartmentsRead,
				PermInventoriesRead, PermInventoriesWrite,
				PermTransactionsRead, PermTransactionsWrite,
				PermFeesRead, PermFeesWrite,
				PermPaymentsRead, PermPaymentsWrite,
				PermExpensesRead, PermExpensesWrite,
				PermReportsRead,
			},
		},
		{
			Code:        "cashier",
			Name:        "Cashier",
			Description: "Records resident payments",
			Permissions: []string{
				PermBuildingsRead,
				PermApartmentsRead,
				PermResidentsRead,
				PermPaymentsRead, PermPaymentsWrite,
				PermTransactionsRead,
			},
		},
		{
			Code:        "resident",
			Name:        "Resident",
			Description: "Sees own building, apartment and payments",
			Permissions: []string{
				PermBuildingsRead,
				PermApartmentsRead,
				PermFeesRead,
				PermPaymentsRead,
			},
		},
		{
			Code:        "maintenance",
			Name:        "Maintenance",
			Description: "Sees buildings and apartments for service work",
			Permissions: []string{
				PermBuildingsRead,
				PermApartmentsRead,
			},
		},
	}
}
