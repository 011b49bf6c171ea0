package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexCode(t *testing.T) {
	cases := map[string]string{
		`"012345"`:  "012345",
		`123456`:    "123456",
		`123456.0`:  "123456",
		`1.23456e5`: "123456",
		`1.23456E5`: "123456",
		`-42.00`:    "-42",
		`123456.5`:  "123456.5",
		`1e30`:      "1e30",
	}

	for in, want := range cases {
		var body verifyBody
		require.NoError(t, json.Unmarshal([]byte(`{"userId":"u","code":`+in+`}`), &body), in)
		assert.Equal(t, want, string(body.Code), in)
	}
}

func TestFlexCode_RejectsOtherTypes(t *testing.T) {
	for _, in := range []string{`true`, `{}`, `["1"]`} {
		var body verifyBody
		assert.Error(t, json.Unmarshal([]byte(`{"userId":"u","code":`+in+`}`), &body), in)
	}
}
