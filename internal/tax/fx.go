package tax

import (
	"github.com/smallbiznis/withholding/internal/tax/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("tax",
	fx.Provide(repository.NewRepository),
)
