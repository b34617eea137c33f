// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/poiesic/qabot"
	"github.com/poiesic/qabot/answer"
	"github.com/poiesic/qabot/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	handler, err := setup(context.Background(), logger)
	if err != nil {
		logger.Error("lambda init failed", "err", err)
		os.Exit(1)
	}
	lambda.Start(handler)
}

// setup builds the Lambda handler once per execution environment.
func setup(ctx context.Context, logger *slog.Logger) (answer.LambdaFunc, error) {
	cfg, err := config.Load(os.Getenv("QABOT_CONFIG"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if level, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	}

	app, err := qabot.Open(ctx, cfg, qabot.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	svc, err := app.NewService()
	if err != nil {
		app.Close()
		return nil, err
	}
	return answer.LambdaHandler(svc), nil
}
