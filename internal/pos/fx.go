package pos

import (
	"github.com/smallbiznis/withholding/internal/pos/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("pos",
	fx.Provide(repository.NewRepository),
)
