package recipe

import (
	"go/ast"
	"reflect"
	"unsafe"
)

// unexportValueOf makes an unexported struct field readable and settable.
func unexportValueOf(field reflect.Value) reflect.Value {
	return reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
}

// fieldOf looks up a possibly promoted field of an addressable struct.
func fieldOf(elem reflect.Value, name string) reflect.Value {
	field := elem.FieldByName(name)
	if !ast.IsExported(name) {
		field = unexportValueOf(field)
	}
	return field
}

// valueOf returns the value of the named field. Exported pointer fields are
// dereferenced.
func valueOf(elem reflect.Value, name string) any {
	field := fieldOf(elem, name)
	if ast.IsExported(name) && field.Kind() == reflect.Ptr {
		return field.Elem().Interface()
	}
	return field.Interface()
}

// setValue assigns value to the named field. A nil value stores the zero
// value of the field's type.
func setValue(elem reflect.Value, name string, value any) {
	field := fieldOf(elem, name)
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return
	}
	field.Set(reflect.ValueOf(value))
}
