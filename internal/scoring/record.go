package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// recordEntry is the persisted form of one parameter:
//
//	"years_of_experience": {"type": "quantitative", "weight": 10, "max_value": 10,
//	                        "benefit_type": "higher", "description": "Years of Experience"}
type recordEntry struct {
	Type        string   `json:"type"`
	Weight      float64  `json:"weight"`
	MaxValue    *float64 `json:"max_value"`
	BenefitType *string  `json:"benefit_type"`
	Description string   `json:"description"`
}

// DecodeRecord parses a parameter configuration record, keeping the order in
// which keys appear in the document. Duplicate keys (after normalization) are
// rejected. Problems confined to one parameter, such as a missing max_value,
// are left for Validate so that a single bad entry does not hide the others.
func DecodeRecord(r io.Reader) ([]Parameter, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading parameter record: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parameter record must be a JSON object, got %v", tok)
	}

	var params []Parameter
	seen := make(map[string]struct{})

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading parameter key: %w", err)
		}
		rawKey, _ := tok.(string)

		var entry recordEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decoding parameter %q: %w", rawKey, err)
		}

		key := NormalizeKey(rawKey)
		if key == "" {
			return nil, errors.New("parameter record contains an empty key")
		}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate parameter key %q", key)
		}
		seen[key] = struct{}{}

		params = append(params, entry.toParameter(key))
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading end of parameter record: %w", err)
	}

	return params, nil
}

func (e recordEntry) toParameter(key string) Parameter {
	p := Parameter{
		Key:         key,
		Name:        strings.TrimSpace(e.Description),
		Weight:      e.Weight,
		Description: strings.TrimSpace(e.Description),
	}
	if p.Name == "" {
		p.Name = strings.ReplaceAll(key, "_", " ")
		p.Description = p.Name
	}

	category, err := ParseCategory(e.Type)
	if err != nil {
		// Kept verbatim so scoring reports it as a configuration error.
		category = Category(e.Type)
	}
	p.Category = category

	if category != Quantitative {
		return p
	}

	p.MaxValue = e.MaxValue
	if e.BenefitType != nil {
		benefit, err := ParseBenefitType(*e.BenefitType)
		if err != nil {
			benefit = BenefitType(*e.BenefitType)
		}
		p.Benefit = benefit
	}
	return p
}

// EncodeRecord writes params as a configuration record in slice order.
func EncodeRecord(w io.Writer, params []Parameter) error {
	var buf bytes.Buffer
	buf.WriteString("{")

	for i, p := range params {
		entry := recordEntry{
			Type:        string(p.Category),
			Weight:      p.Weight,
			Description: p.Description,
		}
		if p.Category == Quantitative {
			entry.MaxValue = p.MaxValue
			if p.Benefit != "" {
				benefit := string(p.Benefit)
				entry.BenefitType = &benefit
			}
		}

		key, err := json.Marshal(p.Key)
		if err != nil {
			return fmt.Errorf("encoding parameter key %q: %w", p.Key, err)
		}
		body, err := json.MarshalIndent(entry, "    ", "    ")
		if err != nil {
			return fmt.Errorf("encoding parameter %q: %w", p.Key, err)
		}

		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(body)
	}

	if len(params) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}
