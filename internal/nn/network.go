package nn

import (
	"fmt"
	"math/rand"
)

// LayerTopology is the neuron count of one layer. A network topology is the
// ordered list of layer sizes, input layer first.
type LayerTopology struct {
	Neurons int
}

// Network is a dense feed-forward network with ReLU activations.
type Network struct {
	topology []LayerTopology
	layers   []layer
}

type layer struct {
	neurons []neuron
}

type neuron struct {
	bias    float32
	weights []float32
}

// Randomize builds a network for topology with every bias and weight drawn
// uniformly from [-1, 1].
func Randomize(rng *rand.Rand, topology []LayerTopology) *Network {
	mustValidateTopology(topology)

	layers := make([]layer, 0, len(topology)-1)
	for i := 0; i < len(topology)-1; i++ {
		layers = append(layers, randomLayer(rng, topology[i].Neurons, topology[i+1].Neurons))
	}
	return &Network{topology: cloneTopology(topology), layers: layers}
}

func randomLayer(rng *rand.Rand, inputs, outputs int) layer {
	neurons := make([]neuron, outputs)
	for i := range neurons {
		neurons[i] = randomNeuron(rng, inputs)
	}
	return layer{neurons: neurons}
}

func randomNeuron(rng *rand.Rand, inputs int) neuron {
	bias := uniformWeight(rng)
	weights := make([]float32, inputs)
	for i := range weights {
		weights[i] = uniformWeight(rng)
	}
	return neuron{bias: bias, weights: weights}
}

func uniformWeight(rng *rand.Rand) float32 {
	return float32(rng.Float64()*2 - 1)
}

// Propagate feeds inputs through every layer and returns the last layer's
// outputs. It panics when inputs do not match the first layer's width.
func (n *Network) Propagate(inputs []float32) []float32 {
	for _, l := range n.layers {
		inputs = l.propagate(inputs)
	}
	return inputs
}

func (l layer) propagate(inputs []float32) []float32 {
	outputs := make([]float32, len(l.neurons))
	for i, neuron := range l.neurons {
		outputs[i] = neuron.propagate(inputs)
	}
	return outputs
}

func (n neuron) propagate(inputs []float32) float32 {
	if len(inputs) != len(n.weights) {
		panic(fmt.Sprintf("neuron expects %d inputs, got %d", len(n.weights), len(inputs)))
	}

	var sum float32
	for i, input := range inputs {
		sum += input * n.weights[i]
	}
	return relu(n.bias + sum)
}

func relu(x float32) float32 {
	if x < 0 {
		return 0
	}
	return x
}

// Weights flattens the network layer by layer, neuron by neuron, emitting each
// neuron's bias before its input weights. FromWeights reads the same order.
func (n *Network) Weights() []float32 {
	weights := make([]float32, 0, n.weightCount())
	for _, l := range n.layers {
		for _, neuron := range l.neurons {
			weights = append(weights, neuron.bias)
			weights = append(weights, neuron.weights...)
		}
	}
	return weights
}

func (n *Network) weightCount() int {
	count := 0
	for _, l := range n.layers {
		for _, neuron := range l.neurons {
			count += len(neuron.weights) + 1
		}
	}
	return count
}

// Topology reports the layer sizes the network was built with.
func (n *Network) Topology() []LayerTopology {
	return cloneTopology(n.topology)
}

func cloneTopology(topology []LayerTopology) []LayerTopology {
	out := make([]LayerTopology, len(topology))
	copy(out, topology)
	return out
}

// FromWeights rebuilds a network for topology from a flat weight sequence.
func FromWeights(topology []LayerTopology, weights []float32) (*Network, error) {
	mustValidateTopology(topology)

	expected := WeightCount(topology)
	reader := weightReader{weights: weights}
	layers := make([]layer, 0, len(topology)-1)
	for i := 0; i < len(topology)-1; i++ {
		l, ok := reader.layer(topology[i].Neurons, topology[i+1].Neurons)
		if !ok {
			return nil, &ShapeMismatchError{Kind: TooFewWeights, Expected: expected, Got: len(weights)}
		}
		layers = append(layers, l)
	}
	if reader.remaining() > 0 {
		return nil, &ShapeMismatchError{Kind: TooManyWeights, Expected: expected, Got: len(weights)}
	}
	return &Network{topology: cloneTopology(topology), layers: layers}, nil
}

// WeightCount is the flat weight length of any network with this topology.
func WeightCount(topology []LayerTopology) int {
	count := 0
	for i := 0; i+1 < len(topology); i++ {
		count += (topology[i].Neurons + 1) * topology[i+1].Neurons
	}
	return count
}

type weightReader struct {
	weights []float32
	pos     int
}

func (r *weightReader) next() (float32, bool) {
	if r.pos >= len(r.weights) {
		return 0, false
	}
	v := r.weights[r.pos]
	r.pos++
	return v, true
}

func (r *weightReader) remaining() int {
	return len(r.weights) - r.pos
}

func (r *weightReader) layer(inputs, outputs int) (layer, bool) {
	neurons := make([]neuron, outputs)
	for i := range neurons {
		bias, ok := r.next()
		if !ok {
			return layer{}, false
		}
		neuronWeights := make([]float32, inputs)
		for j := range neuronWeights {
			if neuronWeights[j], ok = r.next(); !ok {
				return layer{}, false
			}
		}
		neurons[i] = neuron{bias: bias, weights: neuronWeights}
	}
	return layer{neurons: neurons}, true
}

func mustValidateTopology(topology []LayerTopology) {
	if len(topology) < 2 {
		panic(fmt.Sprintf("network topology needs at least 2 layers, got %d", len(topology)))
	}
}
