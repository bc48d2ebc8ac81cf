package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/miradot/intersight-example/interfaces"
)

// summaryFields are printed under each asset's name, in this order.
var summaryFields = []struct {
	label string
	field string
}{
	{"Number of cpus", "NumCpus"},
	{"Available memory", "AvailableMemory"},
	{"System serial number", "Serial"},
	{"tag", "AssetTag"},
	{"Power state", "OperPowerState"},
	{"Mgmt ip", "MgmtIpAddress"},
}

// Present writes one block per asset to w:
//
//	C220-WXY12345PZB
//		Number of cpus: 2
//		...
//		Mgmt ip: 192.168.1.5
//	<blank line>
//
// An asset missing any printed field stops the report with KindMalformedAsset.
// Nothing of that asset is written; earlier assets already are.
func Present(w io.Writer, assets []interfaces.Asset) error {
	for i, asset := range assets {
		block, err := renderAsset(i, asset)
		if err != nil {
			return err
		}
		if _, err := w.Write(block); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func renderAsset(index int, asset interfaces.Asset) ([]byte, error) {
	name, ok := asset.Lookup("Name")
	if !ok {
		return nil, malformed(index, "Name", nil)
	}
	nameStr, ok := name.(string)
	if !ok {
		return nil, malformed(index, "Name", fmt.Errorf("expected a string, got %T", name))
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, strings.TrimLeftFunc(nameStr, unicode.IsSpace))

	for _, f := range summaryFields {
		v, ok := asset.Lookup(f.field)
		if !ok {
			return nil, malformed(index, f.field, nil)
		}
		fmt.Fprintf(&buf, "\t%s: %s\n", f.label, formatValue(v))
	}
	buf.WriteString("\n")

	return buf.Bytes(), nil
}

func malformed(index int, field string, err error) error {
	return &interfaces.Error{Kind: interfaces.KindMalformedAsset, Index: index, Field: field, Err: err}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
