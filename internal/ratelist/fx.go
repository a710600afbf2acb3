package ratelist

import (
	"github.com/smallbiznis/withholding/internal/ratelist/repository"
	"github.com/smallbiznis/withholding/internal/ratelist/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratelist",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
)
