package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type broadcastInput struct {
	TitleAr string   `validate:"required,max=200"`
	Targets []string `validate:"required,min=1"`
	Phone   string   `validate:"omitempty,phone"`
}

func TestV10Validator_Validate(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(broadcastInput{TitleAr: "تذكير", Targets: []string{"all_in_org"}, Phone: "+962 79 000 0000"})
		assert.NoError(t, err)
	})

	t.Run("field errors keyed by snake case", func(t *testing.T) {
		err := v.Validate(broadcastInput{Phone: "abc"})

		var verr V10ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Values(), "title_ar")
		assert.Contains(t, verr.Values(), "targets")
		assert.Equal(t, "Phone must be a valid phone number", verr.Values()["phone"])
	})
}
