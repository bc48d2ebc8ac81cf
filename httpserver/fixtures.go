package httpserver

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/miradot/intersight-example/interfaces"
)

// SampleAssets is served when no assets file is given.
func SampleAssets() []interfaces.Asset {
	return []interfaces.Asset{
		{
			"Name":            " C220-WXY12345PZB",
			"NumCpus":         json.Number("2"),
			"AvailableMemory": json.Number("131072"),
			"Serial":          "WXY12345PZB",
			"AssetTag":        "TIME-MACHEENE",
			"OperPowerState":  "on",
			"MgmtIpAddress":   "192.168.1.5",
		},
	}
}

// LoadAssetsFile reads a {"Results": [...]} document.
func LoadAssetsFile(path string) ([]interfaces.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoder := json.NewDecoder(f)
	decoder.UseNumber()

	var result interfaces.QueryResult
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse assets file %s: %w", path, err)
	}
	return result.Results, nil
}
