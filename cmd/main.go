package main

import (
	"github.com/briansbrian/coshop/order/internal/app"
	"github.com/briansbrian/coshop/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
