package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return Parse(args, io.Discard)
}

func TestParseDefaults(t *testing.T) {
	conf, err := parse(t, "in.shp", "out.shp")
	require.NoError(t, err)

	assert.Equal(t, "in.shp", conf.Input)
	assert.Equal(t, "out.shp", conf.Output)
	assert.Equal(t, "ESRI Shapefile", conf.Format)
	assert.Equal(t, 1000, conf.TransactionSize)
	assert.Equal(t, 200.0, conf.MinLength)
	assert.Equal(t, 2000.0, conf.MaxLength)
	assert.False(t, conf.Geographic)
	assert.Nil(t, conf.DatasetOptions)
	assert.Nil(t, conf.LayerOptions)
}

func TestParseFlags(t *testing.T) {
	conf, err := parse(t,
		"-f", "GeoJSON",
		"--geographic",
		"--gt", "50",
		"-m", "10",
		"-M", "500",
		"--dsco", "A=1,B=2",
		"--lco", "TABLE=lines",
		"in.geojson", "out.geojson",
	)
	require.NoError(t, err)

	assert.Equal(t, "GeoJSON", conf.Format)
	assert.True(t, conf.Geographic)
	assert.Equal(t, 50, conf.TransactionSize)
	assert.Equal(t, 10.0, conf.MinLength)
	assert.Equal(t, 500.0, conf.MaxLength)
	assert.Equal(t, []string{"A=1", "B=2"}, conf.DatasetOptions)
	assert.Equal(t, []string{"TABLE=lines"}, conf.LayerOptions)
}

func TestParseTransactionSizeZero(t *testing.T) {
	conf, err := parse(t, "--gt", "0", "in.shp", "out.shp")
	require.NoError(t, err)
	assert.Equal(t, 0, conf.TransactionSize)
}

func TestParsePositionalErrors(t *testing.T) {
	_, err := parse(t, "only-one")
	assert.Error(t, err)

	_, err = parse(t, "one", "two", "three")
	assert.Error(t, err)

	_, err = parse(t)
	assert.Error(t, err)
}

func TestParseHelp(t *testing.T) {
	_, err := parse(t, "--help")
	assert.Equal(t, ErrHelp, err)
}

func TestParseInvalidValues(t *testing.T) {
	_, err := parse(t, "--gt=-1", "in.shp", "out.shp")
	assert.Error(t, err)

	_, err = parse(t, "-M", "0", "in.shp", "out.shp")
	assert.Error(t, err)
}

func TestParseDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	content := "format: CSV\ngt: 25\nmin_length: 5\nmax_length: 100\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	conf, err := parse(t, "-c", path, "in.shp", "out.csv")
	require.NoError(t, err)
	assert.Equal(t, "CSV", conf.Format)
	assert.Equal(t, 25, conf.TransactionSize)
	assert.Equal(t, 5.0, conf.MinLength)
	assert.Equal(t, 100.0, conf.MaxLength)

	// explicit flags win over the defaults file
	conf, err = parse(t, "-c", path, "--gt", "7", "-f", "GeoJSON", "in.shp", "out.geojson")
	require.NoError(t, err)
	assert.Equal(t, "GeoJSON", conf.Format)
	assert.Equal(t, 7, conf.TransactionSize)
}

func TestSplitOptions(t *testing.T) {
	assert.Nil(t, SplitOptions(""))
	assert.Equal(t, []string{"A=1"}, SplitOptions("A=1"))
	assert.Equal(t, []string{"B=2", "A=1"}, SplitOptions("B=2,A=1"))
	assert.Equal(t, []string{"A=1", "B=2"}, SplitOptions("A=1,,B=2"))
}
