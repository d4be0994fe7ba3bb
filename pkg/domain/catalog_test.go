package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	want := map[AppointmentTypeKey]int{
		TypeConsultation: 30,
		TypeFollowUp:     15,
		TypePhysical:     45,
		TypeSpecialist:   60,
	}
	require.Len(t, c.Types(), len(want))
	for key, minutes := range want {
		typ, ok := c.Lookup(key)
		require.True(t, ok, "missing %s", key)
		assert.Equal(t, minutes, typ.DurationMinutes, key)
		assert.NotEmpty(t, typ.Synonyms, key)
	}

	menu := c.Menu()
	var keys []AppointmentTypeKey
	for _, typ := range menu {
		keys = append(keys, typ.Key)
	}
	assert.Equal(t, []AppointmentTypeKey{TypeConsultation, TypeFollowUp, TypePhysical, TypeSpecialist}, keys)
}

func TestCatalog_TypesIsACopy(t *testing.T) {
	c := DefaultCatalog()
	types := c.Types()
	types[0].Label = "mutated"

	assert.NotEqual(t, "mutated", c.Types()[0].Label)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Malformed", "types: ["},
		{"Empty", "types: []"},
		{"Missing Duration", "types:\n  - key: x\n    label: X\n"},
		{"Duplicate", "types:\n  - {key: a, label: A, duration_minutes: 5}\n  - {key: a, label: B, duration_minutes: 5}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
