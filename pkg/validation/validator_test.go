package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchQuery struct {
	Query string `form:"query" binding:"searchterm"`
}

func validate(t *testing.T, obj any) map[string]string {
	t.Helper()
	Init()
	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}
	return ToDetails(err)
}

func TestSearchQueryRules(t *testing.T) {
	assert.Equal(t, map[string]string{"query": "is required"}, validate(t, &searchQuery{}))
	assert.Equal(t, map[string]string{"query": "must not be blank"}, validate(t, &searchQuery{Query: "   "}))
	assert.Equal(t, map[string]string{"query": "must be at least 2 characters"}, validate(t, &searchQuery{Query: "a"}))
	assert.Nil(t, validate(t, &searchQuery{Query: "ab"}))
}

func TestSearchTermCountsRunesOfRawValue(t *testing.T) {
	assert.Nil(t, validate(t, &searchQuery{Query: "éü"}))
	assert.Nil(t, validate(t, &searchQuery{Query: " a"}))
	require.Contains(t, validate(t, &searchQuery{Query: "é"}), "query")
}

func TestToDetails_Fallback(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("strconv failure")))
}
