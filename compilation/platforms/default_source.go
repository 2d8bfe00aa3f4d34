package platforms

// DefaultSourceName is the synthetic file name under which inline source is handed to the compiler.
const DefaultSourceName = "contract.sol"

// DefaultContractName is the contract defined by DefaultContractSource.
const DefaultContractName = "Contract"

// DefaultContractSource is compiled when no target is configured. Deployed with an initial value it exposes the
// value through x, replaces it with changeX, and doubles it with doubleX.
const DefaultContractSource = `
pragma solidity ^0.8.6;

contract Contract {
    uint public x;

    constructor(uint _x) {
        x = _x;
    }

    function changeX(uint _x) external {
        x = _x;
    }

    function doubleX() external view returns (uint) {
        return x * 2;
    }
}
`
