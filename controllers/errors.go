package controllers

import "errors"

var (
	ErrNoPermission = errors.New("you do not have permission to perform this action")
)
