package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// coreABI is the slice of the protocol core contract this package calls.
const coreABI = `[
  {
    "type": "function",
    "name": "sendNotification",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "_recipient", "type": "address"},
      {"name": "_identity", "type": "bytes"}
    ],
    "outputs": []
  },
  {
    "type": "event",
    "name": "PublicKeyRegistered",
    "anonymous": false,
    "inputs": [
      {"name": "owner", "type": "address", "indexed": true},
      {"name": "publicKey", "type": "bytes", "indexed": false}
    ]
  }
]`

const (
	methodSendNotification = "sendNotification"
	eventPublicKey         = "PublicKeyRegistered"
)

func parseCoreABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(coreABI))
}
