package integration_test

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// Fields whose values differ from run to run and carry no assertion value.
var volatileKeys = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
	"refCode":   {},
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	t.Helper()

	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	ignoreVolatile := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := volatileKeys[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, ignoreVolatile); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}
