package form

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type article struct {
	Title   string
	Summary string `form:"abstract"`
	Views   int
	Tags    *string
	hidden  string
}

func TestObjectData_GetSet(t *testing.T) {
	target := &article{Title: "Old", hidden: "x"}
	dm := NewObjectData(target)

	if got, err := dm.Get("title"); err != nil || got != "Old" {
		t.Fatalf("get title: got %v, %v", got, err)
	}
	if err := dm.Set("abstract", "Short"); err != nil {
		t.Fatalf("set by tag: %v", err)
	}
	if err := dm.Set("views", int64(7)); err != nil {
		t.Fatalf("set with numeric conversion: %v", err)
	}
	if err := dm.Set("tags", "go"); err != nil {
		t.Fatalf("set through pointer: %v", err)
	}
	if target.Summary != "Short" || target.Views != 7 || target.Tags == nil || *target.Tags != "go" {
		t.Fatalf("unexpected target after sets: %+v", target)
	}

	if _, err := dm.Get("hidden"); !errors.Is(err, ErrNoSuchField) {
		t.Fatalf("unexported fields are invisible, got %v", err)
	}
	if err := dm.CanSet("title", 12); err == nil {
		t.Fatalf("int must not be assignable to a string field")
	}
	if err := dm.CanSet("missing", "x"); !errors.Is(err, ErrNoSuchField) {
		t.Fatalf("expected ErrNoSuchField, got %v", err)
	}
}

func TestObjectData_ValueContentIsNotSettable(t *testing.T) {
	dm := NewObjectData(article{Title: "Read only"})
	if got, _ := dm.Get("Title"); got != "Read only" {
		t.Fatalf("get: got %v", got)
	}
	if err := dm.Set("title", "x"); !errors.Is(err, ErrNotSettable) {
		t.Fatalf("expected ErrNotSettable, got %v", err)
	}
}

func TestNewDataManager_PicksImplementation(t *testing.T) {
	values := map[string]any{"a": 1}
	if _, ok := NewDataManager(values).(*DictData); !ok {
		t.Fatalf("maps should use DictData")
	}
	if _, ok := NewDataManager(&article{}).(*ObjectData); !ok {
		t.Fatalf("structs should use ObjectData")
	}
	dict := NewDictData(nil)
	if NewDataManager(dict) != DataManager(dict) {
		t.Fatalf("managers should pass through")
	}
}

type address struct {
	Street string `form:"street"`
	Number int
}

func TestStructFactory(t *testing.T) {
	factory := StructFactory[address]()
	got, err := factory(map[string]any{"street": "Main", "number": "12"})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if diff := cmp.Diff(&address{Street: "Main", Number: 12}, got); diff != "" {
		t.Fatalf("address mismatch (-want +got):\n%s", diff)
	}
}

func TestFactories_Lookup(t *testing.T) {
	reg := NewFactories()
	reg.MustRegister("address", StructFactory[address]())
	if err := reg.Register("address", MapFactory); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := reg.Lookup("address"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := reg.Lookup("person"); !errors.Is(err, ErrFactoryNotFound) {
		t.Fatalf("expected ErrFactoryNotFound, got %v", err)
	}
	var missing *Factories
	if _, err := missing.Lookup("address"); !errors.Is(err, ErrFactoryNotFound) {
		t.Fatalf("nil registry: expected ErrFactoryNotFound, got %v", err)
	}
}
