package docs

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type swaggerDoc struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func readDoc(t *testing.T) (string, swaggerDoc) {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(raw)), "rendered document is not valid JSON")

	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return raw, doc
}

func TestDoc_CoversEveryRoute(t *testing.T) {
	_, doc := readDoc(t)
	assert.Equal(t, "/api/v1", doc.BasePath)

	routes := []struct {
		path    string
		methods []string
	}{
		{"/events", []string{"get", "post"}},
		{"/events/{eventId}", []string{"get", "put", "delete"}},
		{"/events/{eventId}/ticket-categories", []string{"get", "post"}},
		{"/events/{eventId}/ticket-categories/{categoryId}", []string{"put", "delete"}},
		{"/events/{eventId}/ticket-categories/{categoryId}/draft", []string{"get"}},
		{"/ticket-categories/suggestions", []string{"get"}},
		{"/ticket-categories/validate", []string{"post"}},
	}
	for _, r := range routes {
		ops, ok := doc.Paths[r.path]
		require.True(t, ok, "missing path %s", r.path)
		for _, m := range r.methods {
			assert.Contains(t, ops, m, "missing %s %s", m, r.path)
		}
	}
}

func TestDoc_OperationsCarryParamsAndSchemas(t *testing.T) {
	_, doc := readDoc(t)

	var create struct {
		Parameters []struct {
			Name   string          `json:"name"`
			In     string          `json:"in"`
			Schema json.RawMessage `json:"schema"`
		} `json:"parameters"`
		Responses map[string]struct {
			Schema json.RawMessage `json:"schema"`
		} `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(doc.Paths["/events/{eventId}/ticket-categories"]["post"], &create))

	require.Len(t, create.Parameters, 2)
	assert.Equal(t, "eventId", create.Parameters[0].Name)
	assert.Equal(t, "path", create.Parameters[0].In)
	assert.Equal(t, "body", create.Parameters[1].In)
	assert.Contains(t, string(create.Parameters[1].Schema), "#/definitions/ticketcategories.Draft")

	require.Contains(t, create.Responses, "201")
	assert.Contains(t, string(create.Responses["201"].Schema), "#/definitions/ticketcategories.TicketCategoryResponse")
	require.Contains(t, create.Responses, "422")
	assert.Contains(t, string(create.Responses["422"].Schema), "#/definitions/ticketcategories.ValidationError")

	var list struct {
		Parameters []struct {
			Name string `json:"name"`
			In   string `json:"in"`
		} `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(doc.Paths["/events"]["get"], &list))
	var names []string
	for _, p := range list.Parameters {
		assert.Equal(t, "query", p.In)
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"page", "limit", "search", "status", "date_from", "date_to"}, names)
}

func TestDoc_EveryReferenceResolves(t *testing.T) {
	raw, doc := readDoc(t)

	const prefix = `"$ref": "#/definitions/`
	rest := raw
	found := 0
	for {
		i := strings.Index(rest, prefix)
		if i < 0 {
			break
		}
		rest = rest[i+len(prefix):]
		name := rest[:strings.Index(rest, `"`)]
		assert.Contains(t, doc.Definitions, name, "dangling reference %s", name)
		found++
	}
	assert.Greater(t, found, 0)
}
