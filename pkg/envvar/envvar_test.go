package envvar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/triage/pkg/envvar"
)

func TestString(t *testing.T) {
	t.Setenv("TRIAGE_TEST_STRING", "value")

	s := "default"
	envvar.String(&s, "")
	assert.Equal(t, "default", s, "empty name")

	envvar.String(&s, "TRIAGE_TEST_UNSET")
	assert.Equal(t, "default", s, "unset variable")

	envvar.String(&s, "TRIAGE_TEST_STRING")
	assert.Equal(t, "value", s)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		i     int
		f     float64
	}{
		{name: "integer", value: "42", i: 42, f: 42},
		{name: "float", value: "2.5", i: 1, f: 2.5},
		{name: "garbage", value: "many", i: 1, f: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TRIAGE_TEST_NUMBER", tt.value)

			i, f := 1, 1.0
			envvar.Int(&i, "TRIAGE_TEST_NUMBER")
			envvar.Float(&f, "TRIAGE_TEST_NUMBER")

			assert.Equal(t, tt.i, i)
			assert.Equal(t, tt.f, f)
		})
	}
}

func TestBool(t *testing.T) {
	t.Setenv("TRIAGE_TEST_BOOL", "true")
	var b bool
	envvar.Bool(&b, "TRIAGE_TEST_BOOL")
	assert.True(t, b)

	t.Setenv("TRIAGE_TEST_BOOL", "maybe")
	envvar.Bool(&b, "TRIAGE_TEST_BOOL")
	assert.True(t, b, "unparseable value keeps the current setting")
}

func TestList(t *testing.T) {
	t.Setenv("TRIAGE_TEST_LIST", " http://a.example , ,http://b.example")

	list := []string{"*"}
	envvar.List(&list, "TRIAGE_TEST_LIST")
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, list)

	assert.Empty(t, envvar.Split(" , "))
}
