// Package schema describes the output tables and holds their materialized
// column data.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed tables/*.json
var tableFiles embed.FS

// TableName identifies one of the generated tables.
type TableName string

const (
	Authorization     TableName = "authorization"
	AuthorizationHash TableName = "authorization_hash"
	Clearing          TableName = "clearing"
	ClearingHash      TableName = "clearing_hash"
	Chargeback        TableName = "chargeback"
	ChargebackHash    TableName = "chargeback_hash"
)

// BaseTables are generated for every thread.
var BaseTables = []TableName{Authorization, AuthorizationHash, Clearing, ClearingHash}

// ChargebackTables are generated only when the thread selected chargebacks.
var ChargebackTables = []TableName{Chargeback, ChargebackHash}

// IsHash reports whether the table is a hash-mapping side table.
func (t TableName) IsHash() bool {
	return strings.HasSuffix(string(t), "_hash")
}

// Family is the table without its _hash suffix. Both tables of a family land
// in the same table-specific bucket.
func (t TableName) Family() string {
	return strings.TrimSuffix(string(t), "_hash")
}

// IsChargeback reports whether the table holds chargeback rows.
func (t TableName) IsChargeback() bool {
	return t == Chargeback || t == ChargebackHash
}

// Kind is the logical type of a column.
type Kind uint8

const (
	KindString Kind = iota
	KindInt32
	KindInt64
	KindInt16
	KindInt8
	KindTimestamp
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt32:
		return "int"
	case KindInt64:
		return "bigint"
	case KindInt16:
		return "smallint"
	case KindInt8:
		return "tinyint"
	case KindTimestamp:
		return "timestamp"
	default:
		return "decimal"
	}
}

// Column is one typed output column. Precision and Scale apply to decimals.
type Column struct {
	Name      string
	Kind      Kind
	Precision int
	Scale     int
}

// TableSchema is the ordered column list of one table.
type TableSchema struct {
	Name    TableName
	Columns []Column
}

var (
	ErrUnknownTable      = errors.New("unknown table")
	ErrInvalidDescriptor = errors.New("invalid schema descriptor")
)

// descriptor mirrors the JSON field-list layout.
type descriptor struct {
	TableName    string              `json:"table_name"`
	TotalColumns int                 `json:"total_columns"`
	Fields       map[string][]string `json:"fields"`
}

var groupKinds = []struct {
	key  string
	kind Kind
}{
	{"strings", KindString},
	{"ints", KindInt32},
	{"bigints", KindInt64},
	{"smallints", KindInt16},
	{"tinyints", KindInt8},
	{"timestamps", KindTimestamp},
}

const (
	decimalPrefix   = "decimals_"
	maxDecimalScale = 38
)

// Parse decodes a JSON schema descriptor. Columns are ordered by group
// (strings, ints, bigints, smallints, tinyints, timestamps, decimals by key)
// and by position within each group.
func Parse(data []byte) (*TableSchema, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if d.TableName == "" {
		return nil, fmt.Errorf("%w: table_name is required", ErrInvalidDescriptor)
	}

	s := &TableSchema{Name: TableName(d.TableName)}
	seen := make(map[string]bool)
	add := func(c Column) error {
		if seen[c.Name] {
			return fmt.Errorf("%w: column %q listed twice", ErrInvalidDescriptor, c.Name)
		}
		seen[c.Name] = true
		s.Columns = append(s.Columns, c)
		return nil
	}

	known := make(map[string]bool)
	for _, g := range groupKinds {
		known[g.key] = true
		for _, name := range d.Fields[g.key] {
			if err := add(Column{Name: name, Kind: g.kind}); err != nil {
				return nil, err
			}
		}
	}

	var decimalKeys []string
	for key := range d.Fields {
		if known[key] {
			continue
		}
		if !strings.HasPrefix(key, decimalPrefix) {
			return nil, fmt.Errorf("%w: unknown field group %q", ErrInvalidDescriptor, key)
		}
		decimalKeys = append(decimalKeys, key)
	}
	sort.Strings(decimalKeys)
	for _, key := range decimalKeys {
		precision, scale, err := parseDecimalKey(key)
		if err != nil {
			return nil, err
		}
		for _, name := range d.Fields[key] {
			if err := add(Column{Name: name, Kind: KindDecimal, Precision: precision, Scale: scale}); err != nil {
				return nil, err
			}
		}
	}

	if d.TotalColumns != 0 && d.TotalColumns != len(s.Columns) {
		return nil, fmt.Errorf("%w: total_columns is %d but %d columns are listed",
			ErrInvalidDescriptor, d.TotalColumns, len(s.Columns))
	}
	return s, nil
}

// parseDecimalKey reads "decimals_P_S".
func parseDecimalKey(key string) (int, int, error) {
	parts := strings.Split(strings.TrimPrefix(key, decimalPrefix), "_")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: malformed decimal group %q", ErrInvalidDescriptor, key)
	}
	precision, perr := strconv.Atoi(parts[0])
	scale, serr := strconv.Atoi(parts[1])
	if perr != nil || serr != nil || precision < 1 || precision > maxDecimalScale || scale < 0 || scale > precision {
		return 0, 0, fmt.Errorf("%w: invalid decimal group %q", ErrInvalidDescriptor, key)
	}
	return precision, scale, nil
}

// Load returns the embedded schema of a table.
func Load(name TableName) (*TableSchema, error) {
	data, err := tableFiles.ReadFile("tables/" + string(name) + ".json")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	if s.Name != name {
		return nil, fmt.Errorf("schema %s: %w: descriptor names table %q", name, ErrInvalidDescriptor, s.Name)
	}
	if name.IsHash() {
		for _, c := range s.Columns {
			switch c.Kind {
			case KindString, KindInt32, KindInt64, KindTimestamp:
			default:
				return nil, fmt.Errorf("schema %s: %w: hash tables cannot hold %s column %q",
					name, ErrInvalidDescriptor, c.Kind, c.Name)
			}
		}
	}
	return s, nil
}

// LoadAll returns the schemas of every generated table.
func LoadAll() (map[TableName]*TableSchema, error) {
	out := make(map[TableName]*TableSchema)
	for _, names := range [][]TableName{BaseTables, ChargebackTables} {
		for _, name := range names {
			s, err := Load(name)
			if err != nil {
				return nil, err
			}
			out[name] = s
		}
	}
	return out, nil
}
