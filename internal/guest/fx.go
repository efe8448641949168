package guest

import (
	"github.com/roombox/roombox/internal/guest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("guest.service",
	fx.Provide(service.NewService),
)
