package model

import (
	"encoding/json"
	"testing"
)

func TestValue_JSON(t *testing.T) {
	t.Run("decodes every variant", func(t *testing.T) {
		input := `{"pe":21.5,"sector":"tech","profitable":true,"notes":null,"peers":["AAPL","MSFT"],"growth":{"rev":0.12}}`

		var metrics Metrics
		if err := json.Unmarshal([]byte(input), &metrics); err != nil {
			t.Fatalf("Unmarshal() returned unexpected error: %v", err)
		}

		if n, ok := metrics["pe"].AsNumber(); !ok || n != 21.5 {
			t.Errorf("Expected pe number 21.5, got %v (%s)", n, metrics["pe"].Kind())
		}
		if s, ok := metrics["sector"].AsString(); !ok || s != "tech" {
			t.Errorf("Expected sector string, got %s", metrics["sector"].Kind())
		}
		if b, ok := metrics["profitable"].AsBool(); !ok || !b {
			t.Errorf("Expected profitable true, got %s", metrics["profitable"].Kind())
		}
		if !metrics["notes"].IsNull() {
			t.Errorf("Expected notes null, got %s", metrics["notes"].Kind())
		}
		if l, ok := metrics["peers"].AsList(); !ok || len(l) != 2 {
			t.Errorf("Expected peers list of 2, got %s", metrics["peers"].Kind())
		}
		rev, ok := metrics["growth"].Field("rev")
		if n, isNum := rev.AsNumber(); !ok || !isNum || n != 0.12 {
			t.Errorf("Expected growth.rev 0.12, got %v", rev)
		}
	})

	t.Run("encoding is stable and round trips", func(t *testing.T) {
		v := Object(map[string]Value{
			"b": List(Number(1), String("x")),
			"a": Bool(false),
			"c": Null(),
		})

		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("Marshal() returned unexpected error: %v", err)
		}
		want := `{"a":false,"b":[1,"x"],"c":null}`
		if string(data) != want {
			t.Errorf("Expected %s, got %s", want, data)
		}

		var back Value
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal() returned unexpected error: %v", err)
		}
		if !back.Equal(v) {
			t.Errorf("Round trip mismatch: %s", data)
		}
	})

	t.Run("zero value encodes as null", func(t *testing.T) {
		data, err := json.Marshal(Value{})
		if err != nil {
			t.Fatalf("Marshal() returned unexpected error: %v", err)
		}
		if string(data) != "null" {
			t.Errorf("Expected null, got %s", data)
		}
	})
}

func TestFromAny(t *testing.T) {
	t.Run("yaml style integers become numbers", func(t *testing.T) {
		v, err := FromAny(map[string]any{"count": 3})
		if err != nil {
			t.Fatalf("FromAny() returned unexpected error: %v", err)
		}
		n, _ := v.Field("count")
		if f, ok := n.AsNumber(); !ok || f != 3 {
			t.Errorf("Expected number 3, got %v", n)
		}
	})

	t.Run("unsupported types are rejected", func(t *testing.T) {
		if _, err := FromAny(struct{}{}); err == nil {
			t.Error("Expected error for struct input, got nil")
		}
	})
}
