package veil

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type walkTeacher struct {
	ID   string `hashid:"teacher"`
	Name string
}

func (walkTeacher) VeilComposite() {}

type walkStudent struct {
	ID        string  `hashid:"student"`
	MentorID  *string `hashid:"staff"`
	Name      string
	Advisor   *walkTeacher
	Primary   walkTeacher
	Teachers  []walkTeacher
	Pinned    [2]walkTeacher
	ByRole    map[string]walkTeacher
	ByRef     map[string]*walkTeacher
	Extra     any
	Untouched plainRecord
}

func (walkStudent) VeilComposite() {}

// plainRecord is marked but not composite, so it is opaque.
type plainRecord struct {
	ID string `hashid:"student"`
}

type walkNode struct {
	ID   string `hashid:"student"`
	Next *walkNode
}

func (*walkNode) VeilComposite() {}

type walkHidden struct {
	id    string `hashid:"student"`
	Count int    `hashid:"student"`
	Name  string
}

func (walkHidden) VeilComposite() {}

type walkCustom struct {
	userID string
	calls  int
}

func (c *walkCustom) Veil(apply ApplyFunc) error {
	c.calls++
	out, err := apply(c.userID, Student)
	if err != nil {
		return err
	}
	c.userID = out
	return nil
}

func strPtr(s string) *string { return &s }

func TestWalker_NestedCoverage(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)

	s := &walkStudent{
		ID:       "1",
		MentorID: strPtr("2"),
		Name:     "Ada",
		Advisor:  &walkTeacher{ID: "3"},
		Primary:  walkTeacher{ID: "4"},
		Teachers: []walkTeacher{{ID: "5"}, {ID: "6"}},
		Pinned:   [2]walkTeacher{{ID: "7"}, {ID: "8"}},
		ByRole:   map[string]walkTeacher{"math": {ID: "9"}},
		ByRef:    map[string]*walkTeacher{"art": {ID: "10"}},
		Extra:    walkTeacher{ID: "11"},
		Untouched: plainRecord{
			ID: "12",
		},
	}

	out, err := w.Transform(s)
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if out != s {
		t.Error("Transform() of a pointer should return the same pointer")
	}

	checks := []struct {
		name string
		got  string
		n    int64
		d    Domain
	}{
		{"ID", s.ID, 1, Student},
		{"MentorID", *s.MentorID, 2, Staff},
		{"Advisor.ID", s.Advisor.ID, 3, Teacher},
		{"Primary.ID", s.Primary.ID, 4, Teacher},
		{"Teachers[0].ID", s.Teachers[0].ID, 5, Teacher},
		{"Teachers[1].ID", s.Teachers[1].ID, 6, Teacher},
		{"Pinned[0].ID", s.Pinned[0].ID, 7, Teacher},
		{"Pinned[1].ID", s.Pinned[1].ID, 8, Teacher},
		{"ByRole[math].ID", s.ByRole["math"].ID, 9, Teacher},
		{"ByRef[art].ID", s.ByRef["art"].ID, 10, Teacher},
		{"Extra.ID", s.Extra.(walkTeacher).ID, 11, Teacher},
	}
	for _, c := range checks {
		if want := mustEncode(t, obf, c.n, c.d); c.got != want {
			t.Errorf("%s = %q, want %q", c.name, c.got, want)
		}
	}

	if s.Name != "Ada" {
		t.Errorf("Name = %q, want unmarked field unchanged", s.Name)
	}
	if s.Untouched.ID != "12" {
		t.Errorf("Untouched.ID = %q, want opaque type unchanged", s.Untouched.ID)
	}
}

func TestWalker_RoundTrip(t *testing.T) {
	Reset()
	w := NewWalker(testObfuscator(t))

	s := &walkStudent{ID: "1", Teachers: []walkTeacher{{ID: "5"}}}
	if _, err := w.Transform(s); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Transform(s); err != nil {
		t.Fatal(err)
	}
	if s.ID != "1" || s.Teachers[0].ID != "5" {
		t.Errorf("two transforms = %+v, want raw ids restored", s)
	}
}

func TestWalker_SequenceOrder(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)

	list := []walkTeacher{{ID: "3"}, {ID: "1"}, {ID: "2"}}
	if _, err := w.Transform(list); err != nil {
		t.Fatal(err)
	}
	for i, n := range []int64{3, 1, 2} {
		if want := mustEncode(t, obf, n, Teacher); list[i].ID != want {
			t.Errorf("list[%d].ID = %q, want %q", i, list[i].ID, want)
		}
	}
}

func TestWalker_ValueCopy(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)

	in := walkTeacher{ID: "4", Name: "Grace"}
	out, err := TransformValue(context.Background(), w, in)
	if err != nil {
		t.Fatal(err)
	}
	if in.ID != "4" {
		t.Errorf("input ID = %q, want unchanged", in.ID)
	}
	if want := mustEncode(t, obf, 4, Teacher); out.ID != want {
		t.Errorf("output ID = %q, want %q", out.ID, want)
	}
}

func TestWalker_NoOp(t *testing.T) {
	Reset()
	w := NewWalker(testObfuscator(t))

	for _, v := range []any{nil, 42, "123", plainRecord{ID: "1"}, &plainRecord{ID: "1"}, []int{1, 2}} {
		if _, err := w.Transform(v); err != nil {
			t.Errorf("Transform(%v) error: %v", v, err)
		}
	}

	p := &plainRecord{ID: "1"}
	if _, err := w.Transform(p); err != nil || p.ID != "1" {
		t.Errorf("opaque pointer changed: %+v, %v", p, err)
	}

	empty := &walkStudent{}
	if _, err := w.Transform(empty); err != nil {
		t.Errorf("Transform(empty) error: %v", err)
	}
	if empty.ID != "" || empty.MentorID != nil {
		t.Errorf("empty values should stay empty: %+v", empty)
	}
}

func TestWalker_MissingAccessor(t *testing.T) {
	Reset()
	w := NewWalker(testObfuscator(t))

	h := &walkHidden{id: "1", Count: 2, Name: "x"}
	if _, err := w.Transform(h); err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if h.id != "1" || h.Count != 2 {
		t.Errorf("inaccessible fields changed: %+v", h)
	}
}

func TestWalker_Cycle(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)

	a := &walkNode{ID: "1"}
	b := &walkNode{ID: "2", Next: a}
	a.Next = b

	if _, err := w.Transform(a); err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if want := mustEncode(t, obf, 1, Student); a.ID != want {
		t.Errorf("a.ID = %q, want %q", a.ID, want)
	}
	if want := mustEncode(t, obf, 2, Student); b.ID != want {
		t.Errorf("b.ID = %q, want %q (visited once)", b.ID, want)
	}
}

func TestWalker_SharedPointerVisitedOnce(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)

	shared := &walkTeacher{ID: "3"}
	s := &walkStudent{Advisor: shared, ByRef: map[string]*walkTeacher{"x": shared}}
	if _, err := w.Transform(s); err != nil {
		t.Fatal(err)
	}
	if want := mustEncode(t, obf, 3, Teacher); shared.ID != want {
		t.Errorf("shared.ID = %q, want %q", shared.ID, want)
	}
}

type walkItem struct {
	ID string `hashid:"student"`
}

func (walkItem) VeilComposite() {}

type walkHolder struct {
	Items []walkItem
	First *walkItem
	Inner walkItem
	Ref   *walkItem
}

func (walkHolder) VeilComposite() {}

func TestWalker_PointerIntoValueVisitedOnce(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)
	want := mustEncode(t, obf, 7, Student)

	t.Run("slice element", func(t *testing.T) {
		h := &walkHolder{Items: []walkItem{{ID: "7"}, {ID: "8"}}}
		h.First = &h.Items[0]
		if _, err := w.Transform(h); err != nil {
			t.Fatal(err)
		}
		if h.Items[0].ID != want {
			t.Errorf("Items[0].ID = %q, want %q", h.Items[0].ID, want)
		}
		if h.Items[1].ID != mustEncode(t, obf, 8, Student) {
			t.Errorf("Items[1].ID = %q, want encoded", h.Items[1].ID)
		}
	})

	t.Run("struct field", func(t *testing.T) {
		h := &walkHolder{Inner: walkItem{ID: "7"}}
		h.Ref = &h.Inner
		if _, err := w.Transform(h); err != nil {
			t.Fatal(err)
		}
		if h.Inner.ID != want {
			t.Errorf("Inner.ID = %q, want %q", h.Inner.ID, want)
		}
	})

	t.Run("pointer seen first", func(t *testing.T) {
		items := []walkItem{{ID: "7"}}
		h := &walkHolder{First: &items[0], Ref: &items[0]}
		if _, err := w.Transform([]any{h, items}); err != nil {
			t.Fatal(err)
		}
		if items[0].ID != want {
			t.Errorf("items[0].ID = %q, want %q", items[0].ID, want)
		}
	})

	t.Run("map values stay independent", func(t *testing.T) {
		m := map[string]walkItem{"a": {ID: "7"}, "b": {ID: "7"}}
		if _, err := w.Transform(m); err != nil {
			t.Fatal(err)
		}
		for k, v := range m {
			if v.ID != want {
				t.Errorf("m[%q].ID = %q, want %q", k, v.ID, want)
			}
		}
	})
}

func TestWalker_Veiler(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)

	c := &walkCustom{userID: "5"}
	if _, err := w.Transform(c); err != nil {
		t.Fatal(err)
	}
	if c.calls != 1 {
		t.Errorf("Veil called %d times, want 1", c.calls)
	}
	if want := mustEncode(t, obf, 5, Student); c.userID != want {
		t.Errorf("userID = %q, want %q", c.userID, want)
	}

	bad := &walkCustom{userID: "nope"}
	_, err := w.Transform(bad)
	if !errors.Is(err, ErrTransform) || !errors.Is(err, ErrMalformedToken) {
		t.Errorf("Veil error = %v, want ErrTransform and ErrMalformedToken", err)
	}
}

func TestWalker_Error(t *testing.T) {
	Reset()
	w := NewWalker(testObfuscator(t))

	s := &walkStudent{Teachers: []walkTeacher{{ID: "1"}, {ID: "not-a-token"}}}
	_, err := w.Transform(s)

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("Transform() error = %v, want TransformError", err)
	}
	if !strings.HasSuffix(te.Field, "Teachers[1].ID") {
		t.Errorf("Field = %q, want suffix Teachers[1].ID", te.Field)
	}
	if te.Domain != "teacher" {
		t.Errorf("Domain = %q, want teacher", te.Domain)
	}
	if !errors.Is(err, ErrMalformedToken) {
		t.Errorf("error should wrap ErrMalformedToken: %v", err)
	}
}

type walkBadTag struct {
	ID string `hashid:"parent"`
}

func (walkBadTag) VeilComposite() {}

func TestWalker_TagErrors(t *testing.T) {
	Reset()
	w := NewWalker(testObfuscator(t))

	if _, err := w.Transform(&planUnknownDomain{ID: "1"}); err != nil {
		t.Errorf("opaque type with bad tag: error = %v, want nil", err)
	}

	_, err := w.Transform(&walkBadTag{ID: "1"})
	var ce *ConfigError
	if !errors.As(err, &ce) || !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("composite with bad tag: error = %v, want ConfigError(ErrUnknownDomain)", err)
	}
}

func TestWalker_Concurrent(t *testing.T) {
	Reset()
	obf := testObfuscator(t)
	w := NewWalker(obf)
	want := mustEncode(t, obf, 77, Student)

	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func() {
			s := &walkStudent{ID: "77", Teachers: []walkTeacher{{ID: "1"}}}
			if _, err := w.Transform(s); err != nil {
				errs <- err
				return
			}
			if s.ID != want {
				errs <- errors.New("unexpected token " + s.ID)
				return
			}
			errs <- nil
		}()
	}
	for i := 0; i < 16; i++ {
		if err := <-errs; err != nil {
			t.Error(err)
		}
	}
}
