package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/livejava/java/codepad"
	"github.com/dhamidi/livejava/java/stdlib"
)

func TestEvalLoop(t *testing.T) {
	lib, err := stdlib.New()
	require.NoError(t, err)

	bench := codepad.Values{}
	a := codepad.New(lib, "", bench)
	in := strings.NewReader(`
import java.util.*;
List<String> names = new ArrayList<>();
names.get(0).length()
for (String n : names) {}
import no.such.Thing;
var x = 1;
`)
	var out strings.Builder
	require.NoError(t, evalLoop(in, &out, a, bench))

	assert.Equal(t, strings.Join([]string{
		"import",
		"declaration java.util.List<java.lang.String> names",
		"expression int",
		"statement",
		"error: cannot resolve import no.such.Thing;",
		"declaration var x",
	}, "\n")+"\n", out.String())
	assert.Contains(t, bench, "names")
	assert.NotContains(t, bench, "x")
}
