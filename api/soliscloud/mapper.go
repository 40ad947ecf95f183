package soliscloud

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

var jsonNumberType = reflect.TypeOf(json.Number(""))

// decodeRecord copies same-named keys of input into output. Keys without a
// matching field are dropped and fields without a key keep their zero value.
func decodeRecord(input any, output any) error {
	hook := mapstructure.ComposeDecodeHookFunc(
		jsonNumberHook,
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       hook,
		Result:           output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}

// jsonNumberHook lets a json.Number land in any scalar field. Integer
// fields accept fractional numbers by truncation.
func jsonNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from != jsonNumberType {
		return data, nil
	}

	number := data.(json.Number)
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if i, err := number.Int64(); err == nil {
			return i, nil
		}
		f, err := number.Float64()
		if err != nil {
			return nil, err
		}
		return int64(f), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, err := number.Float64()
		if err != nil {
			return nil, err
		}
		return uint64(f), nil
	case reflect.Float32, reflect.Float64:
		return number.Float64()
	case reflect.Bool:
		f, err := number.Float64()
		if err != nil {
			return nil, err
		}
		return f != 0, nil
	case reflect.String:
		return number.String(), nil
	}

	return data, nil
}

func unmarshalJSON(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(v)
}
