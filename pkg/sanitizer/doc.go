// Package sanitizer strips or restricts HTML in user input with bluemonday
// policies. Tree applies a policy to every string of a decoded JSON body.
package sanitizer
