package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
)

// parseKeyValues merges the JSON object in file, which may contain comments,
// with KEY=VALUE pairs. Pairs win over the file. Nil is returned if neither
// was given so the map is left out of the payload.
func parseKeyValues(pairs []string, file string) (map[string]interface{}, error) {
	if len(pairs) == 0 && file == "" {
		return nil, nil
	}

	retMap := map[string]interface{}{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(err, "read values file")
		}

		err = json.Unmarshal(jsonc.ToJSON(data), &retMap)
		if err != nil {
			return nil, errors.Wrapf(err, "parse values file %s", file)
		}
	}

	for _, pair := range pairs {
		splitted := strings.Split(pair, "=")
		if len(splitted) == 1 {
			return nil, fmt.Errorf("invalid value '%s', expected format KEY=VALUE", pair)
		}

		key := strings.TrimSpace(splitted[0])
		if key == "" {
			return nil, fmt.Errorf("invalid value '%s', key is empty", pair)
		}

		retMap[key] = strings.Join(splitted[1:], "=")
	}

	return retMap, nil
}
