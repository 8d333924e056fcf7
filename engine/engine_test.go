package engine_test

import (
	"encoding/json"
	"io/ioutil"
	"testing"

	"github.com/Velocidex/ordereddict"
	errors "github.com/pkg/errors"
	"github.com/sebdah/goldie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sveljko/pgmedian/engine"
	"github.com/sveljko/pgmedian/types"
)

func loadScript(t *testing.T, registry *engine.Registry, path string) {
	script, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, registry.LoadScript(string(script)))
}

func makeTestEngine(t *testing.T) *engine.Engine {
	registry := engine.DefaultRegistry()
	loadScript(t, registry, "testdata/median--1.0.sql")
	return engine.NewEngine(registry)
}

func toRows(values ...int64) []types.Any {
	rows := make([]types.Any, 0, len(values))
	for _, x := range values {
		rows = append(rows, x)
	}
	return rows
}

func TestMedianGolden(t *testing.T) {
	eng := makeTestEngine(t)
	golden := ordereddict.NewDict()

	result, err := eng.Aggregate("median",
		toRows(1, 2, 3, 4, 5), types.TypeInt8, "C")
	assert.NoError(t, err)
	golden.Set("SimpleMedian", result)

	result, err = eng.Aggregate("median",
		toRows(1, 2, 3, 4), types.TypeInt8, "C")
	assert.NoError(t, err)
	golden.Set("UpperMedian", result)

	windowed, err := eng.MovingAggregate("median",
		toRows(5, 3, 8, 1, 9, 2), 3, types.TypeInt8, "C")
	assert.NoError(t, err)
	golden.Set("Window", windowed)

	result, err = eng.Aggregate("median",
		[]types.Any{"pear", "apple", "fig"}, types.TypeText, "C")
	assert.NoError(t, err)
	golden.Set("TextMedian", result)

	result_json, err := json.MarshalIndent(golden, "", " ")
	assert.NoError(t, err)
	goldie.Assert(t, "median", result_json)
}

func TestAggregateIndependence(t *testing.T) {
	eng := makeTestEngine(t)

	result, err := eng.Aggregate("median",
		toRows(1), types.TypeInt8, "C")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), result)

	// A second run must not see the first run's state.
	result, err = eng.Aggregate("median",
		toRows(100, 200, 300), types.TypeInt8, "C")
	assert.NoError(t, err)
	assert.Equal(t, int64(200), result)
}

func TestAggregateEmpty(t *testing.T) {
	eng := makeTestEngine(t)

	result, err := eng.Aggregate("median",
		nil, types.TypeInt8, "C")
	assert.NoError(t, err)
	assert.Equal(t, types.Null{}, result)
}

func TestMovingAggregateNulls(t *testing.T) {
	eng := makeTestEngine(t)

	rows := []types.Any{int64(1), types.Null{}, int64(3)}
	windowed, err := eng.MovingAggregate("median",
		rows, 2, types.TypeInt8, "C")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(windowed))

	// The null row changes nothing; its later retraction does not
	// either, so accumulate/retract pairing stays consistent.
	medians := []types.Any{}
	for _, row := range windowed {
		median, pres := row.Get("median")
		assert.True(t, pres)
		medians = append(medians, median)
	}
	assert.Equal(t,
		[]types.Any{int64(1), int64(1), int64(3)},
		medians)
}

func TestUninstall(t *testing.T) {
	registry := engine.DefaultRegistry()
	loadScript(t, registry, "testdata/median--1.0.sql")
	loadScript(t, registry, "testdata/median--uninstall.sql")

	eng := engine.NewEngine(registry)
	_, err := eng.Aggregate("median", toRows(1), types.TypeInt8, "C")
	assert.Error(t, err)
	assert.Equal(t, engine.ErrUnknownAggregate, errors.Cause(err))
}

func TestUnknownSymbol(t *testing.T) {
	registry := engine.DefaultRegistry()
	err := registry.LoadScript(`
CREATE AGGREGATE median(anyelement) (
    SFUNC = no_such_function,
    STYPE = internal
);
`)
	assert.Error(t, err)
	assert.Equal(t, engine.ErrUnknownSymbol, errors.Cause(err))
}

func TestDeclarationWithoutSFunc(t *testing.T) {
	registry := engine.DefaultRegistry()
	err := registry.LoadScript(`
CREATE AGGREGATE median(anyelement) (
    FINALFUNC = median_finalfn,
    STYPE = internal
);
`)
	assert.Error(t, err)
	assert.Equal(t, engine.ErrInvalidDeclaration, errors.Cause(err))
}

func TestMovingWindowUndeclared(t *testing.T) {
	registry := engine.DefaultRegistry()
	require.NoError(t, registry.LoadScript(`
CREATE AGGREGATE median(anyelement) (
    SFUNC = median_transfn,
    STYPE = internal,
    FINALFUNC = median_finalfn
);
`))

	eng := engine.NewEngine(registry)
	_, err := eng.MovingAggregate("median",
		toRows(1, 2, 3), 2, types.TypeInt8, "C")
	assert.Error(t, err)
	assert.Equal(t, engine.ErrInvalidDeclaration, errors.Cause(err))
}

func TestAggregateFailureIsLogged(t *testing.T) {
	eng := makeTestEngine(t)

	_, err := eng.Aggregate("median",
		[]types.Any{3.14}, types.TypeInt8, "C")
	assert.Error(t, err)

	logs := eng.GetLogs()
	require.Equal(t, 1, len(logs))
	assert.Contains(t, logs[0], "median")
}
