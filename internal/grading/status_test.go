package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, 0, OnTime.Code())
	assert.Equal(t, 1, Late.Code())
	assert.Equal(t, 2, Missing.Code())
	assert.Equal(t, "Status(7)", Status(7).String())
}

func TestStatusJSON(t *testing.T) {
	b, err := json.Marshal(Late)
	require.NoError(t, err)
	assert.JSONEq(t, `"LATE"`, string(b))

	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"MISSING"`), &s))
	assert.Equal(t, Missing, s)
	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, Late, s)

	assert.Error(t, json.Unmarshal([]byte(`"EARLY"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`9`), &s))
}
