package handler

import (
	"net/http"
)

// Alerts writes the notification headers clients use to display the
// outcome of a request: X-<app>-alert, X-<app>-error and X-<app>-params.
type Alerts struct {
	app string
}

// NewAlerts creates alert headers prefixed with the application name.
func NewAlerts(appName string) Alerts {
	return Alerts{app: appName}
}

func (a Alerts) alertHeader() string  { return "X-" + a.app + "-alert" }
func (a Alerts) errorHeader() string  { return "X-" + a.app + "-error" }
func (a Alerts) paramsHeader() string { return "X-" + a.app + "-params" }

func (a Alerts) alert(w http.ResponseWriter, message, param string) {
	w.Header().Set(a.alertHeader(), message)
	w.Header().Set(a.paramsHeader(), param)
}

// Created sets the alert for a newly created entity.
func (a Alerts) Created(w http.ResponseWriter, entity, id string) {
	a.alert(w, a.app+"."+entity+".created", id)
}

// Updated sets the alert for an updated entity.
func (a Alerts) Updated(w http.ResponseWriter, entity, id string) {
	a.alert(w, a.app+"."+entity+".updated", id)
}

// Deleted sets the alert for a deleted entity.
func (a Alerts) Deleted(w http.ResponseWriter, entity, id string) {
	a.alert(w, a.app+"."+entity+".deleted", id)
}

// Failure sets the error alert for a rejected request.
func (a Alerts) Failure(w http.ResponseWriter, entity, key string) {
	w.Header().Set(a.errorHeader(), "error."+key)
	w.Header().Set(a.paramsHeader(), entity)
}
