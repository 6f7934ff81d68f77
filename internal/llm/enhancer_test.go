package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelmostacci-alt/PDP-automation/constants"
	"github.com/raphaelmostacci-alt/PDP-automation/internal/fields"
)

type stubClient struct {
	reply string
	err   error
}

func (c stubClient) Complete(_ context.Context, _ string) (string, error) {
	return c.reply, c.err
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
		ok    bool
	}{
		{"bare object", `{"surname":"DUPONT"}`, `{"surname":"DUPONT"}`, true},
		{"fenced object", "Here you go:\n```json\n{\"surname\":\"DUPONT\"}\n```\nDone.", `{"surname":"DUPONT"}`, true},
		{"prose around object", `Sure! {"a":1} hope that helps`, `{"a":1}`, true},
		{"no object", "sorry, I could not read the document", "", false},
		{"only opening brace", "{", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.reply)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnhanceMergesOverExtractedFields(t *testing.T) {
	e := NewEnhancer(stubClient{
		reply: "```json\n{\"surname\": \"DUPONT\", \"expiry_date\": \"31/12/2027\"}\n```",
	}, nil)

	in := fields.DocumentFields{
		Type: constants.IdentityCard,
		Identity: &fields.IdentityCardFields{
			Surname:   "DUPONT-OCR",
			GivenName: "Jean",
		},
		RawText: "Nom: DUPONT-OCR",
	}
	out, enh := e.Enhance(context.Background(), in)

	assert.True(t, enh.Applied)
	assert.ElementsMatch(t, []string{"surname", "expiry_date"}, enh.MergedKeys)
	// Assistant value wins on overlap; untouched fields survive.
	assert.Equal(t, "DUPONT", out.Identity.Surname)
	assert.Equal(t, "Jean", out.Identity.GivenName)
	require.NotNil(t, out.Identity.ExpiryDate)
	assert.Equal(t, time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC), *out.Identity.ExpiryDate)
	// The input is not mutated.
	assert.Equal(t, "DUPONT-OCR", in.Identity.Surname)
	assert.Nil(t, in.Identity.ExpiryDate)
}

func TestEnhanceClientErrorLeavesFieldsUnchanged(t *testing.T) {
	e := NewEnhancer(stubClient{err: errors.New("connection refused")}, nil)

	in := fields.DocumentFields{
		Type:     constants.IdentityCard,
		Identity: &fields.IdentityCardFields{Surname: "DUPONT"},
	}
	out, enh := e.Enhance(context.Background(), in)

	assert.False(t, enh.Applied)
	assert.Contains(t, enh.Err, "connection refused")
	assert.Equal(t, "DUPONT", out.Identity.Surname)
}

func TestEnhanceUnparseableReply(t *testing.T) {
	e := NewEnhancer(stubClient{reply: "I could not find any structured data."}, nil)

	in := fields.DocumentFields{Type: constants.IdentityCard, Identity: &fields.IdentityCardFields{}}
	out, enh := e.Enhance(context.Background(), in)

	assert.False(t, enh.Applied)
	assert.Equal(t, "no JSON object in reply", enh.Err)
	assert.Equal(t, "I could not find any structured data.", enh.RawResponse)
	assert.Equal(t, in, out)
}

func TestEnhanceMalformedJSONDoesNotCrash(t *testing.T) {
	e := NewEnhancer(stubClient{reply: `{"surname": "DUPONT",}`}, nil)

	in := fields.DocumentFields{Type: constants.IdentityCard, Identity: &fields.IdentityCardFields{}}
	out, enh := e.Enhance(context.Background(), in)

	assert.False(t, enh.Applied)
	assert.NotEmpty(t, enh.Err)
	assert.Equal(t, in, out)
}

func TestEnhanceSchemaRejection(t *testing.T) {
	// publication_year must be an integer.
	e := NewEnhancer(stubClient{reply: `{"publication_year": "not a year"}`}, nil)

	in := fields.DocumentFields{Type: constants.SafetyDataSheet, SafetySheet: &fields.SafetySheetFields{}}
	out, enh := e.Enhance(context.Background(), in)

	assert.False(t, enh.Applied)
	assert.Contains(t, enh.Err, "schema")
	assert.Equal(t, in, out)
}

func TestEnhanceElectricalFields(t *testing.T) {
	e := NewEnhancer(stubClient{
		reply: `{"surname":"DURAND","given_name":"Paul","issue_date":"15/01/2023","level":"B1V"}`,
	}, nil)

	in := fields.DocumentFields{Type: constants.ElectricalAuthorization, Electrical: &fields.ElectricalAuthFields{}}
	out, enh := e.Enhance(context.Background(), in)

	require.True(t, enh.Applied)
	assert.Equal(t, "DURAND", out.Electrical.Surname)
	assert.Equal(t, "B1V", out.Electrical.Level)
	require.NotNil(t, out.Electrical.IssueDate)
	assert.Equal(t, 2023, out.Electrical.IssueDate.Year())
}

func TestEnhanceUnknownTypeRejected(t *testing.T) {
	e := NewEnhancer(stubClient{reply: `{"surname":"X"}`}, nil)

	in := fields.DocumentFields{Type: constants.UnknownDocType}
	out, enh := e.Enhance(context.Background(), in)

	assert.False(t, enh.Applied)
	assert.NotEmpty(t, enh.Err)
	assert.Equal(t, in, out)
}

func TestNoopAssistant(t *testing.T) {
	in := fields.DocumentFields{Type: constants.IdentityCard}
	out, enh := NoopAssistant{}.Enhance(context.Background(), in)
	assert.Equal(t, in, out)
	assert.False(t, enh.Applied)
	assert.Empty(t, enh.Err)
}

func TestBuildPromptTruncatesText(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'a'
	}
	prompt := BuildPrompt(constants.IdentityCard, string(long))
	assert.Less(t, len(prompt), 2000)
	assert.Contains(t, prompt, "expiry_date")
}
