package posegrid

import (
	"fmt"
	"reflect"
)

// BackendTag records which GPU backend has been installed into the App.
type BackendTag struct {
	Name string
}

// ensureSingleBackend panics if a different backend was already installed.
// Installing the same backend name twice is a no-op.
func ensureSingleBackend(app *App, name string) {
	if app == nil {
		panic("ensureSingleBackend: app is nil")
	}
	t := reflect.TypeOf((*BackendTag)(nil)).Elem()
	if res, ok := app.resources[t]; ok {
		tag, ok := res.(*BackendTag)
		if !ok {
			panic("BackendTag resource present with unexpected type")
		}
		if tag.Name != name {
			app.Logger().Errorf("Multiple backends installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("Multiple backends installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&BackendTag{Name: name})
}
