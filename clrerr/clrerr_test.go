package clrerr

import "testing"

func TestUnwrapSuccess(t *testing.T) {
	r := Ok(42)
	if v := Unwrap(r); v != 42 {
		t.Fatalf("Unwrap() = %d, want 42", v)
	}
}

func TestUnwrapPanicsWithKindError(t *testing.T) {
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic on a failed result")
		}
		kerr, ok := rec.(*KindError)
		if !ok {
			t.Fatalf("recovered value is %T, want *KindError", rec)
		}
		if kerr.Kind != KindFileNotFound {
			t.Errorf("Kind = %v, want %v", kerr.Kind, KindFileNotFound)
		}
	}()
	Unwrap(Fail[int](AssemblyNotFound))
}

func TestResolveReturnsError(t *testing.T) {
	_, err := Resolve(Fail[string](TypeNotFound))
	if err == nil {
		t.Fatal("expected non-nil error")
	}
	kerr, ok := err.(*KindError)
	if !ok || kerr.Kind != KindInvalidOperation {
		t.Fatalf("err = %v, want KindInvalidOperation", err)
	}
}
