package shell

import "errors"

var (
	ErrAlreadyMounted     = errors.New("shell: application already mounted")
	ErrMountPointNotFound = errors.New("shell: mount point not found in layout")
	ErrDuplicateComponent = errors.New("shell: component already registered")
	ErrDuplicatePlugin    = errors.New("shell: plugin already installed")
	ErrUnknownComponent   = errors.New("shell: component is not registered")
	ErrUnknownView        = errors.New("shell: route references an unknown view")

	// ErrInvalidInput - форма заполнена неверно; ответ 400 с баннером ошибки
	ErrInvalidInput = errors.New("invalid form input")

	// ErrUpstream помечает ошибки обращения к бэкенду из представлений
	ErrUpstream = errors.New("upstream request failed")
)
