package migrate

import (
	"encoding/json"
	"strconv"

	"github.com/goliatone/go-modelcard/pkg/schema"
)

// Default dataset names for the keyed datasets of 0.0.1 payloads.
const (
	TrainingSetName   = "Training Set"
	ValidationSetName = "Validation Set"
)

// upgradeV001 rewrites a 0.0.1 payload into the 0.0.2 shape:
//
//   - model_details.license becomes licenses[{custom_text}]
//   - model_details.references strings become [{uri}]
//   - model_details.citation becomes citations[{text}]
//   - model_parameters.data {train, eval} becomes an ordered list with default
//     names
//   - dataset sensitive flags become a sensitive section (true) or are dropped
//   - considerations string lists become [{description}]
//   - numeric metric values, thresholds and bounds become decimal strings
//
// A confidence interval missing either bound fails the migration; no default
// bound is invented.
func upgradeV001(doc map[string]any) (map[string]any, error) {
	if details, ok := doc["model_details"].(map[string]any); ok {
		if err := upgradeDetails(details); err != nil {
			return nil, err
		}
	}
	if params, ok := doc["model_parameters"].(map[string]any); ok {
		if err := upgradeParameters(params); err != nil {
			return nil, err
		}
	}
	if qa, ok := doc["quantitative_analysis"].(map[string]any); ok {
		if err := upgradeAnalysis(qa); err != nil {
			return nil, err
		}
	}
	if cons, ok := doc["considerations"].(map[string]any); ok {
		for _, key := range []string{"users", "use_cases", "limitations", "tradeoffs"} {
			if err := wrapStrings(cons, key, "description", "considerations."+key); err != nil {
				return nil, err
			}
		}
	}
	doc[schema.VersionKey] = "0.0.2"
	return doc, nil
}

func upgradeDetails(details map[string]any) error {
	if license, ok := details["license"]; ok {
		delete(details, "license")
		text, isString := license.(string)
		if !isString {
			return fieldErrorf("model_details.license", "expected a string, got %T", license)
		}
		details["licenses"] = []any{map[string]any{"custom_text": text}}
	}
	if err := wrapStrings(details, "references", "uri", "model_details.references"); err != nil {
		return err
	}
	if citation, ok := details["citation"]; ok {
		delete(details, "citation")
		text, isString := citation.(string)
		if !isString {
			return fieldErrorf("model_details.citation", "expected a string, got %T", citation)
		}
		details["citations"] = []any{map[string]any{"text": text}}
	}
	return nil
}

func upgradeParameters(params map[string]any) error {
	raw, ok := params["data"]
	if !ok {
		return nil
	}
	keyed, isMap := raw.(map[string]any)
	if !isMap {
		return fieldErrorf("model_parameters.data", "expected an object with train and eval, got %T", raw)
	}

	list := []any{}
	for _, split := range []struct{ key, name string }{
		{"train", TrainingSetName},
		{"eval", ValidationSetName},
	} {
		value, present := keyed[split.key]
		if !present {
			continue
		}
		path := "model_parameters.data." + split.key
		dataset, isMap := value.(map[string]any)
		if !isMap {
			return fieldErrorf(path, "expected an object, got %T", value)
		}
		if _, named := dataset["name"]; !named {
			dataset["name"] = split.name
		}
		if err := upgradeSensitive(dataset, path); err != nil {
			return err
		}
		list = append(list, dataset)
	}
	for key := range keyed {
		if key != "train" && key != "eval" {
			return fieldErrorf("model_parameters.data."+key, "only train and eval datasets can be migrated")
		}
	}
	params["data"] = list
	return nil
}

func upgradeSensitive(dataset map[string]any, path string) error {
	value, ok := dataset["sensitive"]
	if !ok {
		return nil
	}
	flag, isBool := value.(bool)
	if !isBool {
		return fieldErrorf(path+".sensitive", "expected a boolean, got %T", value)
	}
	if flag {
		dataset["sensitive"] = map[string]any{}
	} else {
		delete(dataset, "sensitive")
	}
	return nil
}

func upgradeAnalysis(qa map[string]any) error {
	raw, ok := qa["performance_metrics"]
	if !ok {
		return nil
	}
	metrics, isList := raw.([]any)
	if !isList {
		return fieldErrorf("quantitative_analysis.performance_metrics", "expected a list, got %T", raw)
	}
	for i, item := range metrics {
		path := "quantitative_analysis.performance_metrics." + strconv.Itoa(i)
		metric, isMap := item.(map[string]any)
		if !isMap {
			return fieldErrorf(path, "expected an object, got %T", item)
		}
		for _, key := range []string{"value", "threshold"} {
			if err := stringifyNumber(metric, key, path); err != nil {
				return err
			}
		}
		ciRaw, present := metric["confidence_interval"]
		if !present {
			continue
		}
		ciPath := path + ".confidence_interval"
		ci, isMap := ciRaw.(map[string]any)
		if !isMap {
			return fieldErrorf(ciPath, "expected an object, got %T", ciRaw)
		}
		for _, key := range []string{"lower_bound", "upper_bound"} {
			if _, has := ci[key]; !has {
				return fieldErrorf(ciPath+"."+key, "confidence interval is missing %s; 0.0.2 requires both bounds", key)
			}
			if err := stringifyNumber(ci, key, ciPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func stringifyNumber(obj map[string]any, key, path string) error {
	value, ok := obj[key]
	if !ok {
		return nil
	}
	switch v := value.(type) {
	case string:
	case json.Number:
		obj[key] = v.String()
	case float64:
		obj[key] = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		obj[key] = strconv.Itoa(v)
	default:
		return fieldErrorf(path+"."+key, "expected a number or string, got %T", value)
	}
	return nil
}

// wrapStrings turns a list of strings under key into a list of objects with
// the string stored under field.
func wrapStrings(obj map[string]any, key, field, path string) error {
	raw, ok := obj[key]
	if !ok {
		return nil
	}
	items, isList := raw.([]any)
	if !isList {
		return fieldErrorf(path, "expected a list of strings, got %T", raw)
	}
	wrapped := make([]any, 0, len(items))
	for i, item := range items {
		text, isString := item.(string)
		if !isString {
			return fieldErrorf(path+"."+strconv.Itoa(i), "expected a string, got %T", item)
		}
		wrapped = append(wrapped, map[string]any{field: text})
	}
	obj[key] = wrapped
	return nil
}
