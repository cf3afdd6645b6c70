package normalizer

import "testing"

func TestAddress_Format(t *testing.T) {
	address := NewAddress(NewText())

	tests := []struct {
		name       string
		components AddressComponents
		want       string
	}{
		{
			name: "Full address with empty street2",
			components: AddressComponents{
				Street:  "123 Main St",
				Street2: "",
				City:    "Springfield",
				State:   "IL",
				Zip:     "12345",
			},
			want: "123 Main St, Springfield IL 12345",
		},
		{
			name: "With street2",
			components: AddressComponents{
				Street:  "123 Main St",
				Street2: "Suite 100",
				City:    "Springfield",
				State:   "IL",
				Zip:     "12345",
			},
			want: "123 Main St, Suite 100, Springfield IL 12345",
		},
		{
			name: "Whitespace-only components dropped",
			components: AddressComponents{
				Street: "  456 Oak  Ave ",
				City:   "  ",
				State:  "CA",
				Zip:    "90001",
			},
			want: "456 Oak Ave, CA 90001",
		},
		{
			name:       "All empty",
			components: AddressComponents{},
			want:       "",
		},
		{
			name: "City state zip only",
			components: AddressComponents{
				City:  "Portland",
				State: "OR",
				Zip:   "97201",
			},
			want: "Portland OR 97201",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := address.Format(tt.components); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
