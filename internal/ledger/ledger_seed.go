package ledger

import "go-otta/internal/domain"

// SeedUsers is written the first time the user list is read.
func SeedUsers() []domain.User {
	return []domain.User{
		{
			ID:         "u1",
			Name:       "Alex Rivera",
			Email:      "alex.rivera@otta.com",
			Role:       domain.RoleEmployee,
			Department: "Engineering",
			Avatar:     "https://picsum.photos/100/100",
		},
		{
			ID:         "u2",
			Name:       "Sarah Chen",
			Email:      "sarah.chen@otta.com",
			Role:       domain.RoleHR,
			Department: "Human Resources",
			Avatar:     "https://picsum.photos/101/101",
		},
		{
			ID:         "u3",
			Name:       "Jordan Smith",
			Email:      "jordan.smith@otta.com",
			Role:       domain.RoleEmployee,
			Department: "Design",
			Avatar:     "https://picsum.photos/102/102",
		},
	}
}
