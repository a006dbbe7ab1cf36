package plinth

import (
	"fmt"
	"reflect"
)

// TypeName returns the canonical name the catalog gives to definitions
// producing T: the package-qualified type name with any pointer stripped.
//
// Example:
//
//	plinth.TypeName[*UserService]() // "example.com/app/users.UserService"
func TypeName[T any]() string {
	return typeName(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeNameOf returns the canonical type name of v's dynamic type.
func TypeNameOf(v any) string {
	if v == nil {
		return "<nil>"
	}

	return typeName(reflect.TypeOf(v))
}

// Get resolves id with type safety.
func Get[T any](c *Container, id string) (T, error) {
	var zero T

	instance, err := c.Get(id)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch(id, reflect.TypeOf((*T)(nil)).Elem(), instance)
	}

	return typed, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](c *Container, id string) T {
	instance, err := Get[T](c, id)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", id, err))
	}

	return instance
}

// GetType resolves the component registered under T's type name.
//
// Example:
//
//	users, err := plinth.GetType[*UserService](c)
func GetType[T any](c *Container) (T, error) {
	return Get[T](c, TypeName[T]())
}

// CallAs invokes callable like Container.Call and asserts the result type.
func CallAs[T any](c *Container, callable any) (T, error) {
	var zero T

	out, err := c.Call(callable)
	if err != nil {
		return zero, err
	}

	typed, ok := out.(T)
	if !ok {
		return zero, ErrTypeMismatch(fmt.Sprintf("%v", callable), reflect.TypeOf((*T)(nil)).Elem(), out)
	}

	return typed, nil
}
