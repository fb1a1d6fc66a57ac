/*
Package lockbox defines the common interfaces used to tie together
the custody engine: stores, handlers, messages and the derived
address scheme. Implementations live in the subpackages.

We pass context through context.Context between the engine,
the decorators and the handlers. To do so, lockbox defines
some common keys to store info, such as the block time,
chain id and logger. Each extension, such as x/sigs, may add
its own keys to enrich the context with specific data.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ panics if the value was previously set to avoid
lower-level modules overwriting the value.
*/
package lockbox
