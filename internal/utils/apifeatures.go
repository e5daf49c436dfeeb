package utils

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// control keys are stripped from the filter stage; they drive the other three
// transformations.
var controlKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

var comparisonOps = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
}

// APIFeatures translates flat query parameters into a Mongo filter plus find
// options. Each transformation mutates and returns the same builder so the
// four stages chain fluently: Filter().Sort().LimitFields().Paginate().
type APIFeatures struct {
	params url.Values

	Query   bson.M
	Options *options.FindOptions

	err error
}

func NewAPIFeatures(params url.Values) *APIFeatures {
	return &APIFeatures{
		params:  params,
		Query:   bson.M{},
		Options: options.Find(),
	}
}

// Err reports the first translation problem encountered by any stage.
func (f *APIFeatures) Err() error {
	return f.err
}

// Filter turns every non-control parameter into an equality constraint, or a
// comparison constraint for the bracketed field[op]=value syntax with op in
// gt, gte, lt, lte.
func (f *APIFeatures) Filter() *APIFeatures {
	for key, values := range f.params {
		if controlKeys[key] || len(values) == 0 {
			continue
		}
		value := values[0]

		field, op, ok := splitOperator(key)
		if !ok {
			f.Query[key] = coerceValue(value)
			continue
		}

		mongoOp, known := comparisonOps[op]
		if !known {
			if f.err == nil {
				f.err = ValidationError("Unknown filter operator: " + op)
			}
			continue
		}

		cond, exists := f.Query[field].(bson.M)
		if !exists {
			cond = bson.M{}
		}
		cond[mongoOp] = coerceValue(value)
		f.Query[field] = cond
	}

	return f
}

// Sort parses a comma-separated field list where a leading '-' means
// descending. Without a sort parameter, newest records come first.
func (f *APIFeatures) Sort() *APIFeatures {
	raw := f.params.Get("sort")
	if raw == "" {
		f.Options.SetSort(bson.D{{Key: "created_at", Value: -1}})
		return f
	}

	var sort bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			order = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	if len(sort) > 0 {
		f.Options.SetSort(sort)
	}

	return f
}

// LimitFields applies a projection from the comma-separated fields parameter.
// Either all-inclusion or all-exclusion; mixing the two is rejected because
// the database cannot satisfy both in one projection.
func (f *APIFeatures) LimitFields() *APIFeatures {
	raw := f.params.Get("fields")
	if raw == "" {
		return f
	}

	projection := bson.D{}
	includes, excludes := 0, 0
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value := 1
		if strings.HasPrefix(field, "-") {
			value = 0
			field = field[1:]
			excludes++
		} else {
			includes++
		}
		projection = append(projection, bson.E{Key: field, Value: value})
	}

	if includes > 0 && excludes > 0 {
		if f.err == nil {
			f.err = ValidationError("Cannot mix inclusion and exclusion in fields")
		}
		return f
	}
	if len(projection) > 0 {
		f.Options.SetProjection(projection)
	}

	return f
}

// Paginate computes skip = (page-1)*limit. An out-of-range page is not an
// error; the query simply returns no records.
func (f *APIFeatures) Paginate() *APIFeatures {
	page := positiveIntParam(f.params.Get("page"), DefaultPage)
	limit := positiveIntParam(f.params.Get("limit"), DefaultLimit)

	f.Options.SetSkip(int64((page - 1) * limit))
	f.Options.SetLimit(int64(limit))

	return f
}

// splitOperator recognizes the field[op] bracket syntax.
func splitOperator(key string) (field, op string, ok bool) {
	open := strings.Index(key, "[")
	if open == -1 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerceValue parses numeric and boolean strings so that Mongo comparison
// operators work on real numbers rather than lexicographic strings.
func coerceValue(value string) interface{} {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if fl, err := strconv.ParseFloat(value, 64); err == nil {
		return fl
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func positiveIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
