package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLink(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty string", "", ""},
		{"whitespace", "   ", ""},
		{"literal null", "null", ""},
		{"literal NULL", "NULL", ""},
		{"real id", "u1", "u1"},
		{"padded id", " u1 ", "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeLink(tc.in))
		})
	}
}

func TestStaffLinked(t *testing.T) {
	assert.False(t, Staff{UserID: ""}.Linked())
	assert.True(t, Staff{UserID: "u1"}.Linked())
}

func TestStaffDisplayName(t *testing.T) {
	assert.Equal(t, "Janie", Staff{PreferredName: "Janie", LegalFullName: "Jane Doe"}.DisplayName())
	assert.Equal(t, "Jane Doe", Staff{LegalFullName: "Jane Doe"}.DisplayName())
}
