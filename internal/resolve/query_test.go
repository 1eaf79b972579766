package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/zoneplan/internal/roster"
)

func rec(fields map[string]string) roster.Record {
	return roster.Record{Fields: fields}
}

func TestBuildQuery_FullAddressWinsVerbatim(t *testing.T) {
	r := rec(map[string]string{
		"Address": "600 Congress Ave, Austin, TX 78701",
		"address": "ignored street",
		"city":    "ignored city",
	})
	assert.Equal(t, "600 Congress Ave, Austin, TX 78701", BuildQuery(r, ""))
}

func TestBuildQuery_JoinsComponents(t *testing.T) {
	r := rec(map[string]string{
		"address": "600 Congress Ave",
		"city":    "Austin",
		"state":   "TX",
		"zip":     "78701",
	})
	assert.Equal(t, "600 Congress Ave, Austin, TX, 78701", BuildQuery(r, ""))
}

func TestBuildQuery_SkipsEmptyComponents(t *testing.T) {
	r := rec(map[string]string{
		"address": "600 Congress Ave",
		"state":   "TX",
	})
	assert.Equal(t, "600 Congress Ave, TX", BuildQuery(r, ""))
}

func TestBuildQuery_AppendsHint(t *testing.T) {
	r := rec(map[string]string{"address": "600 Congress Ave"})
	assert.Equal(t, "600 Congress Ave, Austin, TX", BuildQuery(r, "Austin, TX"))
}

func TestBuildQuery_HintAlreadyPresent(t *testing.T) {
	r := rec(map[string]string{"Address": "600 Congress Ave, AUSTIN, TX"})
	// Case-insensitive containment suppresses the hint.
	assert.Equal(t, "600 Congress Ave, AUSTIN, TX", BuildQuery(r, "Austin, TX"))
}

func TestBuildQuery_HintOnEmptyRecord(t *testing.T) {
	r := rec(map[string]string{})
	assert.Equal(t, "Missouri", BuildQuery(r, "Missouri"))
}
