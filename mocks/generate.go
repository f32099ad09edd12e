package mocks

//go:generate mockgen -destination=./mock_trading.go -package=mocks github.com/rxtech-lab/argo-rotation/internal/trading TradingSystem
//go:generate mockgen -destination=./mock_strategy_runtime.go -package=mocks github.com/rxtech-lab/argo-rotation/internal/runtime StrategyRuntime
