package vc

import (
	"context"
	"encoding/json"

	"github.com/PaesslerAG/gval"
	"github.com/golang/glog"
	"github.com/lainio/err2/try"
)

// schema reference locations inside offer and proof request bodies and their
// attachments
var bodySchemaPaths = []gval.Evaluable{
	try.To1(language.NewEvaluable("$..schema_id")),
	try.To1(language.NewEvaluable("$..schema_ids")),
	try.To1(language.NewEvaluable("$..schemaId")),
}

// SchemaGUIDsIn returns the GUIDs of every schema id URL found from the JSON
// document, in the order they were found. Duplicates are removed.
func SchemaGUIDsIn(docs ...json.RawMessage) (guids []string) {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		var data any
		if err := json.Unmarshal(doc, &data); err != nil {
			glog.V(3).Infoln("schema search, not JSON:", err)
			continue
		}
		for _, path := range bodySchemaPaths {
			v, err := path(context.Background(), data)
			if err != nil {
				continue
			}
			for _, id := range flatten(v) {
				guid, ok := SchemaGUID(id)
				if _, dup := seen[guid]; !ok || dup {
					continue
				}
				seen[guid] = struct{}{}
				guids = append(guids, guid)
			}
		}
	}
	return guids
}

func flatten(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return stringsOf(v)
	}
	ss := make([]string, 0, len(items))
	for _, item := range items {
		ss = append(ss, flatten(item)...)
	}
	return ss
}
