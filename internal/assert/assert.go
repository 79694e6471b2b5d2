package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics if value is nil, this includes typed nils like a nil *T stored in an interface.
func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		if v.IsNil() {
			panic(fmt.Sprintf("expected %s to be not nil", name))
		}
	}
}

func NotEmptyStr(str, name string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be a non-empty string", name))
	}
}

func Positive(value int64, name string) {
	if value <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %d", name, value))
	}
}
