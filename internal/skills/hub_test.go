package skills

import (
	"context"

	"HomeyChat/internal/entity"
)

// fakeHub records hub calls and serves canned flow and device lists.
type fakeHub struct {
	onOffDevice string
	onOffValue  bool
	onOffCalls  int

	dimDevice string
	dimValue  float64
	dimCalls  int

	triggered []string

	flows   []entity.Flow
	devices []entity.Device

	err error
}

func (f *fakeHub) SetOnOff(ctx context.Context, deviceID string, on bool) error {
	f.onOffCalls++
	f.onOffDevice = deviceID
	f.onOffValue = on
	return f.err
}

func (f *fakeHub) SetDim(ctx context.Context, deviceID string, value float64) error {
	f.dimCalls++
	f.dimDevice = deviceID
	f.dimValue = value
	return f.err
}

func (f *fakeHub) ListFlows(ctx context.Context) ([]entity.Flow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.flows, nil
}

func (f *fakeHub) TriggerFlow(ctx context.Context, flowID string) error {
	if f.err != nil {
		return f.err
	}
	f.triggered = append(f.triggered, flowID)
	return nil
}

func (f *fakeHub) ListDevices(ctx context.Context) ([]entity.Device, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.devices, nil
}
