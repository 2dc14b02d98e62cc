// Package bind is the declarative producer over the preference model: it
// builds a Group from struct field metadata and writes reconciled values
// back onto the struct. Field behavior is declared with tags:
//
//	type Settings struct {
//		Theme   string `pref:"Theme" desc:"UI color theme." default:"dark" allowed:"light|dark"`
//		Width   int32  `pref:"Width" desc:"Window width in pixels."`
//		Ignored string `pref:"-"`
//	}
//
// The field's current value seeds the preference value; the default tag,
// when present, seeds the default. Untagged exported fields of supported
// types are bound under their field name.
package bind

import (
	"fmt"
	"net/netip"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"

	"github.com/CreativeUnicorns/prefdoc"
)

// FromStruct inspects the exported fields of host, which must be a struct
// or pointer to struct, and builds one preference per supported field.
func FromStruct(host any) (*prefdoc.Group, error) {
	v, err := structValue(host)
	if err != nil {
		return nil, err
	}

	group, err := prefdoc.NewGroup()
	if err != nil {
		return nil, err
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("pref"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		pref, err := buildField(name, field, v.Field(i))
		if err != nil {
			return nil, err
		}
		if pref == nil {
			// Unsupported field type without an explicit pref tag.
			continue
		}
		if err := group.Add(pref); err != nil {
			return nil, err
		}
	}
	return group, nil
}

// Apply writes the group's present values back onto host's fields,
// matching by pref tag (or field name). Null preferences leave their
// fields untouched.
func Apply(group *prefdoc.Group, host any) error {
	if group == nil || host == nil {
		return prefdoc.ErrNilArgument
	}
	values := make(map[string]any)
	for _, name := range group.Names() {
		v, present, err := group.GetValue(name)
		if err != nil {
			return err
		}
		if present {
			values[name] = v
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  host,
		TagName: "pref",
	})
	if err != nil {
		return fmt.Errorf("failed to configure decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to apply preferences: %w", err)
	}
	return nil
}

func structValue(host any) (reflect.Value, error) {
	if host == nil {
		return reflect.Value{}, prefdoc.ErrNilArgument
	}
	v := reflect.ValueOf(host)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, prefdoc.ErrNilArgument
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %T is not a struct", prefdoc.ErrNilArgument, host)
	}
	return v, nil
}

// buildField constructs the preference for one struct field, or returns
// (nil, nil) for unsupported untagged field types.
func buildField(name string, field reflect.StructField, value reflect.Value) (prefdoc.Preference, error) {
	desc := field.Tag.Get("desc")
	defTag, hasDefault := field.Tag.Lookup("default")
	allowedTag, hasAllowed := field.Tag.Lookup("allowed")
	_, tagged := field.Tag.Lookup("pref")

	switch value.Interface().(type) {
	case bool:
		b := prefdoc.NewBool(name).WithDescription(desc).WithValue(value.Bool())
		if hasDefault {
			d, err := strconv.ParseBool(defTag)
			if err != nil {
				return nil, tagError(name, "default", err)
			}
			b = b.WithDefaultValue(d)
		}
		return b.Build()
	case string:
		b := prefdoc.NewString(name).WithDescription(desc).WithValue(value.String())
		if hasDefault {
			b = b.WithDefaultValue(defTag)
		}
		if hasAllowed {
			b = b.WithAllowedValues(strings.Split(allowedTag, "|")...).AllowOnlyDefinedValues()
		}
		return b.Build()
	case []byte:
		b := prefdoc.NewBytes(name).WithDescription(desc).WithValue(value.Bytes())
		if hasDefault {
			b = b.WithDefaultValue([]byte(defTag))
		}
		return b.Build()
	case decimal.Decimal:
		b := prefdoc.NewDecimal(name).WithDescription(desc).WithValue(value.Interface().(decimal.Decimal))
		if hasDefault {
			d, err := decimal.NewFromString(defTag)
			if err != nil {
				return nil, tagError(name, "default", err)
			}
			b = b.WithDefaultValue(d)
		}
		return b.Build()
	case netip.Addr:
		b := prefdoc.NewNetAddr(name).WithDescription(desc).WithValue(value.Interface().(netip.Addr))
		if hasDefault {
			a, err := netip.ParseAddr(defTag)
			if err != nil {
				return nil, tagError(name, "default", err)
			}
			b = b.WithDefaultValue(a)
		}
		return b.Build()
	}

	switch value.Kind() {
	case reflect.Int8:
		return buildSigned[int8](prefdoc.NewInt8(name), desc, value.Int(), defTag, hasDefault, allowedTag, hasAllowed, 8)
	case reflect.Int16:
		return buildSigned[int16](prefdoc.NewInt16(name), desc, value.Int(), defTag, hasDefault, allowedTag, hasAllowed, 16)
	case reflect.Int32:
		return buildSigned[int32](prefdoc.NewInt32(name), desc, value.Int(), defTag, hasDefault, allowedTag, hasAllowed, 32)
	case reflect.Int, reflect.Int64:
		return buildSigned[int64](prefdoc.NewInt64(name), desc, value.Int(), defTag, hasDefault, allowedTag, hasAllowed, 64)
	case reflect.Uint8:
		return buildUnsigned[uint8](prefdoc.NewUint8(name), desc, value.Uint(), defTag, hasDefault, allowedTag, hasAllowed, 8)
	case reflect.Uint16:
		return buildUnsigned[uint16](prefdoc.NewUint16(name), desc, value.Uint(), defTag, hasDefault, allowedTag, hasAllowed, 16)
	case reflect.Uint32:
		return buildUnsigned[uint32](prefdoc.NewUint32(name), desc, value.Uint(), defTag, hasDefault, allowedTag, hasAllowed, 32)
	case reflect.Uint, reflect.Uint64:
		return buildUnsigned[uint64](prefdoc.NewUint64(name), desc, value.Uint(), defTag, hasDefault, allowedTag, hasAllowed, 64)
	case reflect.Float32:
		return buildFloat[float32](prefdoc.NewFloat32(name), desc, value.Float(), defTag, hasDefault, 32)
	case reflect.Float64:
		return buildFloat[float64](prefdoc.NewFloat64(name), desc, value.Float(), defTag, hasDefault, 64)
	}

	if tagged {
		return nil, fmt.Errorf("%w: field %q has unsupported type %s", prefdoc.ErrKindMismatch, name, field.Type)
	}
	return nil, nil
}

func buildSigned[T int8 | int16 | int32 | int64](b prefdoc.Builder[T], desc string, value int64, defTag string, hasDefault bool, allowedTag string, hasAllowed bool, bitSize int) (prefdoc.Preference, error) {
	b = b.WithDescription(desc).WithValue(T(value))
	if hasDefault {
		d, err := strconv.ParseInt(defTag, 10, bitSize)
		if err != nil {
			return nil, tagError(b.Name(), "default", err)
		}
		b = b.WithDefaultValue(T(d))
	}
	if hasAllowed {
		var allowed []T
		for _, part := range strings.Split(allowedTag, "|") {
			n, err := strconv.ParseInt(strings.TrimSpace(part), 10, bitSize)
			if err != nil {
				return nil, tagError(b.Name(), "allowed", err)
			}
			allowed = append(allowed, T(n))
		}
		b = b.WithAllowedValues(allowed...).AllowOnlyDefinedValues()
	}
	return b.Build()
}

func buildUnsigned[T uint8 | uint16 | uint32 | uint64](b prefdoc.Builder[T], desc string, value uint64, defTag string, hasDefault bool, allowedTag string, hasAllowed bool, bitSize int) (prefdoc.Preference, error) {
	b = b.WithDescription(desc).WithValue(T(value))
	if hasDefault {
		d, err := strconv.ParseUint(defTag, 10, bitSize)
		if err != nil {
			return nil, tagError(b.Name(), "default", err)
		}
		b = b.WithDefaultValue(T(d))
	}
	if hasAllowed {
		var allowed []T
		for _, part := range strings.Split(allowedTag, "|") {
			n, err := strconv.ParseUint(strings.TrimSpace(part), 10, bitSize)
			if err != nil {
				return nil, tagError(b.Name(), "allowed", err)
			}
			allowed = append(allowed, T(n))
		}
		b = b.WithAllowedValues(allowed...).AllowOnlyDefinedValues()
	}
	return b.Build()
}

func buildFloat[T float32 | float64](b prefdoc.Builder[T], desc string, value float64, defTag string, hasDefault bool, bitSize int) (prefdoc.Preference, error) {
	b = b.WithDescription(desc).WithValue(T(value))
	if hasDefault {
		d, err := strconv.ParseFloat(defTag, bitSize)
		if err != nil {
			return nil, tagError(b.Name(), "default", err)
		}
		b = b.WithDefaultValue(T(d))
	}
	return b.Build()
}

func tagError(name, tag string, cause error) error {
	return fmt.Errorf("field %q: bad %s tag: %w", name, tag, cause)
}
