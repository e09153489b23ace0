// Package forecast defines the demand forecasting contract consumed by the
// decision engine. Forecasts inform monitoring and dashboards; the greedy
// allocation itself runs on current conditions only.
package forecast
