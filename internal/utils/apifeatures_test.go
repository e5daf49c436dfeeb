package utils

import (
	"net/url"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestFilter_EqualityAndComparison(t *testing.T) {
	params := url.Values{}
	params.Set("difficulty", "easy")
	params.Set("duration[gte]", "5")
	params.Set("price[lt]", "1500")
	params.Set("page", "2")
	params.Set("sort", "price")

	f := NewAPIFeatures(params).Filter()
	if err := f.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Query["difficulty"] != "easy" {
		t.Fatalf("expected equality filter, got %v", f.Query["difficulty"])
	}
	duration, ok := f.Query["duration"].(bson.M)
	if !ok || duration["$gte"] != int64(5) {
		t.Fatalf("expected duration $gte 5, got %v", f.Query["duration"])
	}
	price, ok := f.Query["price"].(bson.M)
	if !ok || price["$lt"] != int64(1500) {
		t.Fatalf("expected price $lt 1500, got %v", f.Query["price"])
	}

	// Control parameters never leak into the filter.
	if _, exists := f.Query["page"]; exists {
		t.Fatalf("page must not appear in the filter")
	}
	if _, exists := f.Query["sort"]; exists {
		t.Fatalf("sort must not appear in the filter")
	}
}

func TestFilter_CombinedOperatorsOnOneField(t *testing.T) {
	params := url.Values{}
	params.Set("price[gte]", "500")
	params.Add("price[lte]", "2000")

	f := NewAPIFeatures(params).Filter()
	price, ok := f.Query["price"].(bson.M)
	if !ok {
		t.Fatalf("expected range filter, got %v", f.Query["price"])
	}
	if price["$gte"] != int64(500) || price["$lte"] != int64(2000) {
		t.Fatalf("expected both bounds, got %v", price)
	}
}

func TestFilter_UnknownOperator(t *testing.T) {
	params := url.Values{}
	params.Set("price[ne]", "500")

	f := NewAPIFeatures(params).Filter()
	if f.Err() == nil {
		t.Fatalf("expected error for unknown operator")
	}
}

func TestFilter_ValueCoercion(t *testing.T) {
	params := url.Values{}
	params.Set("ratings_average[gte]", "4.7")
	params.Set("secret_tour", "false")

	f := NewAPIFeatures(params).Filter()
	rating := f.Query["ratings_average"].(bson.M)
	if rating["$gte"] != 4.7 {
		t.Fatalf("expected float coercion, got %T %v", rating["$gte"], rating["$gte"])
	}
	if f.Query["secret_tour"] != false {
		t.Fatalf("expected bool coercion, got %v", f.Query["secret_tour"])
	}
}

func TestSort_DefaultNewestFirst(t *testing.T) {
	f := NewAPIFeatures(url.Values{}).Sort()
	sort, ok := f.Options.Sort.(bson.D)
	if !ok || len(sort) != 1 {
		t.Fatalf("expected single default sort key, got %v", f.Options.Sort)
	}
	if sort[0].Key != "created_at" || sort[0].Value != -1 {
		t.Fatalf("expected created_at descending, got %v", sort[0])
	}
}

func TestSort_MultiKeyWithDirection(t *testing.T) {
	params := url.Values{}
	params.Set("sort", "-ratings_average,price")

	f := NewAPIFeatures(params).Sort()
	sort := f.Options.Sort.(bson.D)
	if len(sort) != 2 {
		t.Fatalf("expected two sort keys, got %v", sort)
	}
	if sort[0].Key != "ratings_average" || sort[0].Value != -1 {
		t.Fatalf("expected ratings_average descending first, got %v", sort[0])
	}
	if sort[1].Key != "price" || sort[1].Value != 1 {
		t.Fatalf("expected price ascending second, got %v", sort[1])
	}
}

func TestLimitFields_Inclusion(t *testing.T) {
	params := url.Values{}
	params.Set("fields", "name,price,summary")

	f := NewAPIFeatures(params).LimitFields()
	projection, ok := f.Options.Projection.(bson.D)
	if !ok || len(projection) != 3 {
		t.Fatalf("expected three projected fields, got %v", f.Options.Projection)
	}
	for _, e := range projection {
		if e.Value != 1 {
			t.Fatalf("expected inclusion projection, got %v", e)
		}
	}
}

func TestLimitFields_MixedInclusionExclusion(t *testing.T) {
	params := url.Values{}
	params.Set("fields", "name,-price")

	f := NewAPIFeatures(params).LimitFields()
	if f.Err() == nil {
		t.Fatalf("expected error when mixing inclusion and exclusion")
	}
}

func TestPaginate_SkipAndLimit(t *testing.T) {
	params := url.Values{}
	params.Set("page", "3")
	params.Set("limit", "10")

	f := NewAPIFeatures(params).Paginate()
	if *f.Options.Skip != 20 {
		t.Fatalf("expected skip 20, got %d", *f.Options.Skip)
	}
	if *f.Options.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", *f.Options.Limit)
	}
}

func TestPaginate_Defaults(t *testing.T) {
	f := NewAPIFeatures(url.Values{}).Paginate()
	if *f.Options.Skip != 0 {
		t.Fatalf("expected skip 0, got %d", *f.Options.Skip)
	}
	if *f.Options.Limit != int64(DefaultLimit) {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, *f.Options.Limit)
	}
}

func TestPaginate_InvalidValuesFallBack(t *testing.T) {
	params := url.Values{}
	params.Set("page", "-1")
	params.Set("limit", "abc")

	f := NewAPIFeatures(params).Paginate()
	if *f.Options.Skip != 0 {
		t.Fatalf("expected skip 0 for invalid page, got %d", *f.Options.Skip)
	}
	if *f.Options.Limit != int64(DefaultLimit) {
		t.Fatalf("expected default limit for invalid limit, got %d", *f.Options.Limit)
	}
}

func TestChain_FullTranslation(t *testing.T) {
	params := url.Values{}
	params.Set("duration[gte]", "5")
	params.Set("difficulty", "easy")
	params.Set("sort", "price")
	params.Set("fields", "name,price")
	params.Set("page", "2")
	params.Set("limit", "5")

	f := NewAPIFeatures(params).Filter().Sort().LimitFields().Paginate()
	if err := f.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Query) != 2 {
		t.Fatalf("expected two filter clauses, got %v", f.Query)
	}
	if *f.Options.Skip != 5 || *f.Options.Limit != 5 {
		t.Fatalf("expected skip 5 limit 5, got %d %d", *f.Options.Skip, *f.Options.Limit)
	}
}
