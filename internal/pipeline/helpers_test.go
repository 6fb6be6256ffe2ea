package pipeline

import "github.com/GriffinCanCode/LeoCore/internal/infrastructure/logging"

func testLogger() *logging.Logger { return logging.Nop() }
