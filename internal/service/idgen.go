package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
)

// idMaxAttempts bounds the uniqueness probe loop. With only 100 candidate
// codes per phone suffix, exhaustion is a hard failure surfaced to the
// caller rather than retried forever.
const idMaxAttempts = 20

// ErrGenerationExhausted is returned when no free identifier was found
// within the attempt budget.
var ErrGenerationExhausted = errors.New("could not generate a unique identifier, please try again")

const clientIDPrefix = "CL"

// rolePrefix maps a staff role to its identifier prefix.
func rolePrefix(role domain.Role) string {
	switch role {
	case domain.RoleSuperAdmin:
		return "SA"
	case domain.RoleAdmin:
		return "AD"
	case domain.RoleCoach:
		return "CO"
	default:
		return "UR"
	}
}

// phoneSuffix takes the last three digits of the phone number, zero-padded
// on the left when the number is shorter.
func phoneSuffix(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if len(digits) > 3 {
		digits = digits[len(digits)-3:]
	}
	return fmt.Sprintf("%03s", digits)
}

// generateUniqueID builds candidates of the form <prefix><3 phone digits>
// <2 random digits> and probes the store until one is free. The probe loop
// only avoids constraint-violation retries; the unique index on the id field
// is the actual correctness backstop against concurrent generators.
func generateUniqueID(ctx context.Context, prefix, phone string, exists func(context.Context, string) (bool, error)) (string, error) {
	suffix := phoneSuffix(phone)
	for i := 0; i < idMaxAttempts; i++ {
		candidate := fmt.Sprintf("%s%s%02d", prefix, suffix, rand.IntN(100))
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrGenerationExhausted
}
